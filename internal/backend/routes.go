package backend

import "github.com/soaringjerry/Candor/internal/models"

// areaRoutes is the one place backend paths are spelled out. The manager
// service nests its auth routes one level deeper than the others.
type areaRoutes struct {
	Login  string
	Logout string
	Signup string
}

var authRoutes = map[models.Role]areaRoutes{
	models.RoleAdmin:    {Login: "/admin/login", Logout: "/admin/logout"},
	models.RoleEmployee: {Login: "/employee/login", Logout: "/employee/logout", Signup: "/employee/signup"},
	models.RoleManager:  {Login: "/manager/manager/login", Logout: "/manager/logout", Signup: "/manager/manager/signup"},
}

const (
	routeCreateForm         = "/admin/create/form"
	routeListForms          = "/employee/get/allforms"
	routeEmployees          = "/employee/get/details"
	routeSendRequest        = "/employee/send/request"
	routeRequestedFeedback  = "/employee/requestedFeedback"
	routeReceived           = "/employee/get/others/requested"
	routeAllReceived        = "/employee/get/others-all/requested"
	routeSubmitFeedback     = "/employee/submit/feedback"
	routeRejectRequest      = "/employee/reject/request"
	routeRequestDetail      = "/employee/get/my/requeste"
	routeFeedbackMessages   = "/employee/get/feedback/messages"
	routeDepartmentFeedback = "/manager/get/employees/feedback"
)
