package services

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/soaringjerry/Candor/internal/logging"
	"github.com/soaringjerry/Candor/internal/models"
	"github.com/soaringjerry/Candor/internal/quality"
)

// TopRatedCount is how many responses the manager overview highlights.
const TopRatedCount = 2

type ReviewBackend interface {
	DepartmentFeedback(ctx context.Context, token, department string) ([]models.Feedback, error)
	ListEmployees(ctx context.Context, token string) ([]models.Employee, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, texts []string) (string, error)
}

type ReviewService struct {
	backend    ReviewBackend
	summarizer Summarizer
	anon       anonymity
}

func NewReviewService(b ReviewBackend, summarizer Summarizer, snapshots SnapshotStore, forms *FormService) *ReviewService {
	return &ReviewService{backend: b, summarizer: summarizer, anon: newAnonymity(snapshots, forms)}
}

type Review struct {
	Department string          `json:"department"`
	Members    int             `json:"members"`
	Count      int             `json:"count"`
	Average    float64         `json:"average"`
	Feedback   []FeedbackView  `json:"feedback"`
	TopRated   []FeedbackView  `json:"topRated"`
	Summary    quality.Summary `json:"summary"`
}

// Review builds the manager's department overview. A failing summarizer
// leaves the summary empty.
func (s *ReviewService) Review(ctx context.Context) (*Review, error) {
	sess, err := requireSession(ctx, models.RoleManager)
	if err != nil {
		return nil, err
	}
	dept := strings.TrimSpace(sess.Department)
	if dept == "" {
		return nil, NewInvalidError("no department on this account")
	}

	var (
		feedback  []models.Feedback
		employees []models.Employee
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		feedback, err = s.backend.DepartmentFeedback(gctx, sess.Token, dept)
		return err
	})
	g.Go(func() error {
		var err error
		employees, err = s.backend.ListEmployees(gctx, sess.Token)
		if err != nil {
			// headcount is cosmetic
			logging.FromContext(ctx).Warn(ctx, "employee list failed", zap.Error(err))
			employees = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fromBackend(err)
	}

	out := &Review{Department: dept, Feedback: make([]FeedbackView, 0, len(feedback))}
	for _, e := range employees {
		if strings.EqualFold(e.Department, dept) {
			out.Members++
		}
	}
	texts := make([]string, 0, len(feedback))
	total := 0
	for _, fb := range feedback {
		out.Feedback = append(out.Feedback, s.anon.view(ctx, fb, senderOf(fb)))
		total += fb.Rating
		texts = append(texts, fb.Message)
	}
	out.Count = len(feedback)
	if out.Count > 0 {
		out.Average = float64(total) / float64(out.Count)
	}
	out.TopRated = topRated(out.Feedback, TopRatedCount)
	out.Summary = s.summarize(ctx, texts)
	return out, nil
}

func (s *ReviewService) summarize(ctx context.Context, texts []string) quality.Summary {
	if s.summarizer == nil {
		return quality.ParseSummary("")
	}
	text, err := s.summarizer.Summarize(ctx, texts)
	if err != nil {
		logging.FromContext(ctx).Warn(ctx, "feedback summary failed", zap.Error(err))
		return quality.ParseSummary("")
	}
	return quality.ParseSummary(text)
}

// topRated keeps the n best rated responses; ties keep backend order.
func topRated(fbs []FeedbackView, n int) []FeedbackView {
	sorted := append([]FeedbackView(nil), fbs...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Rating > sorted[j].Rating })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	if sorted == nil {
		sorted = []FeedbackView{}
	}
	return sorted
}
