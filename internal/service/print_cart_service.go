package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/idcard-api/internal/dto"
	"github.com/noah-isme/idcard-api/internal/events"
	"github.com/noah-isme/idcard-api/internal/models"
	"github.com/noah-isme/idcard-api/internal/observability"
	"github.com/noah-isme/idcard-api/internal/repository"
)

// PrintCartService manages the per-session selection of students to print.
type PrintCartService interface {
	Toggle(ctx context.Context, sessionID, studentID string) (dto.CartToggleResponse, error)
	List(ctx context.Context, sessionID string) (dto.CartResponse, error)
	Clear(ctx context.Context, sessionID string) error
	Preview(ctx context.Context, sessionID string) (dto.PrintPreviewResponse, error)
	Complete(ctx context.Context, actor Actor, sessionID string) (dto.PrintCompleteResponse, error)
}

type printCartService struct {
	students  repository.StudentRepository
	cart      CartStore
	publisher PrintEventPublisher
	cache     *DashboardCache
	activity  ActivityRecorder
	logger    zerolog.Logger
	now       func() time.Time
}

// NewPrintCartService constructs the print cart service. publisher and cache may be nil.
func NewPrintCartService(students repository.StudentRepository, cart CartStore, publisher PrintEventPublisher, cache *DashboardCache, activity ActivityRecorder, logger zerolog.Logger) PrintCartService {
	return &printCartService{
		students:  students,
		cart:      cart,
		publisher: publisher,
		cache:     cache,
		activity:  activity,
		logger:    logger.With().Str("component", "print_cart_service").Logger(),
		now:       time.Now,
	}
}

func (s *printCartService) Toggle(ctx context.Context, sessionID, studentID string) (dto.CartToggleResponse, error) {
	studentID, ok := CanonicalID(studentID)
	if !ok {
		return dto.CartToggleResponse{}, ErrInvalidStudentID
	}

	size, added, err := s.cart.Toggle(ctx, sessionID, studentID)
	if err != nil {
		return dto.CartToggleResponse{}, err
	}

	action := "removed"
	if added {
		action = "added"
	}
	observability.CartToggles().WithLabelValues(action).Inc()

	return dto.CartToggleResponse{Count: size, Added: added}, nil
}

func (s *printCartService) List(ctx context.Context, sessionID string) (dto.CartResponse, error) {
	ids, err := s.cart.List(ctx, sessionID)
	if err != nil {
		return dto.CartResponse{}, err
	}
	return dto.CartResponse{Items: ids, Count: len(ids)}, nil
}

func (s *printCartService) Clear(ctx context.Context, sessionID string) error {
	return s.cart.Clear(ctx, sessionID)
}

// Preview loads the carted students in cart order. The template is the one chosen by the first student's school.
func (s *printCartService) Preview(ctx context.Context, sessionID string) (dto.PrintPreviewResponse, error) {
	ids, err := s.cart.List(ctx, sessionID)
	if err != nil {
		return dto.PrintPreviewResponse{}, err
	}
	if len(ids) == 0 {
		return dto.PrintPreviewResponse{}, ErrCartEmpty
	}

	students, err := s.students.ListByIDs(ctx, ids)
	if err != nil {
		return dto.PrintPreviewResponse{}, err
	}
	if len(students) == 0 {
		return dto.PrintPreviewResponse{}, ErrCartEmpty
	}

	response := dto.PrintPreviewResponse{
		SelectedTemplate: models.DefaultTemplate,
		Students:         dto.NewStudentResponses(students),
		IDs:              ids,
	}
	if school := students[0].School; school != nil {
		response.School = dto.NewSchoolResponse(*school)
		if school.SelectedTemplate != "" {
			response.SelectedTemplate = school.SelectedTemplate
		}
	}
	return response, nil
}

// Complete marks every carted student as PRINTED and empties the cart. When the update fails the cart is put back.
func (s *printCartService) Complete(ctx context.Context, actor Actor, sessionID string) (dto.PrintCompleteResponse, error) {
	tracer := otel.Tracer("github.com/noah-isme/idcard-api/internal/service/print_cart")
	ctx, span := tracer.Start(ctx, "print.complete")
	defer span.End()

	ids, err := s.cart.Drain(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		return dto.PrintCompleteResponse{}, err
	}
	if len(ids) == 0 {
		return dto.PrintCompleteResponse{Redirect: SuperAdminHome}, nil
	}

	printed, err := s.students.MarkPrinted(ctx, ids)
	if err != nil {
		span.RecordError(err)
		if restoreErr := s.cart.Restore(ctx, sessionID, ids); restoreErr != nil {
			s.logger.Error().Err(restoreErr).Int("ids", len(ids)).Msg("failed to restore print cart")
		}
		return dto.PrintCompleteResponse{}, fmt.Errorf("mark printed: %w", err)
	}

	batchID := uuid.NewString()
	span.SetAttributes(
		attribute.String("print.batch_id", batchID),
		attribute.Int64("print.printed", printed),
	)
	observability.PrintBatches().Inc()
	observability.PrintedCards().Add(float64(printed))
	s.cache.Invalidate(ctx)

	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		ActorID:    actor.UserID,
		ActorRole:  actor.Role,
		Action:     ActionPrintCompleted,
		EntityType: "print_batch",
		EntityID:   batchID,
		Metadata:   map[string]interface{}{"student_ids": ids, "printed": printed},
	})

	if s.publisher != nil {
		event := events.PrintCompleted{
			BatchID:    batchID,
			ActorID:    actor.UserID,
			StudentIDs: ids,
			Printed:    printed,
			OccurredAt: s.now().UTC(),
		}
		if err := s.publisher.PublishPrintCompleted(ctx, event); err != nil {
			s.logger.Warn().Err(err).Str("batch_id", batchID).Msg("failed to publish print completion")
		}
	}

	s.logger.Info().Str("batch_id", batchID).Int64("printed", printed).Msg("print batch completed")
	return dto.PrintCompleteResponse{BatchID: batchID, Printed: printed, Redirect: SuperAdminHome}, nil
}
