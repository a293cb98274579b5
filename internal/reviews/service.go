package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sipeslibya/storefront-backend/pkg/db/models"
	pkgerrors "github.com/sipeslibya/storefront-backend/pkg/errors"
	"github.com/sipeslibya/storefront-backend/pkg/pagination"
)

// Service exposes storefront review submission and back-office moderation.
// New reviews start hidden; only approved ones reach the storefront.
type Service interface {
	SubmitReview(ctx context.Context, input SubmitReviewInput) (*ReviewDTO, error)
	ListProductReviews(ctx context.Context, productID uuid.UUID) (*ProductReviewsDTO, error)
	ListReviews(ctx context.Context, input ListReviewsInput) (*ListResult, error)
	ApproveReview(ctx context.Context, reviewID uuid.UUID, approved bool) (*ReviewDTO, error)
	VerifyReview(ctx context.Context, reviewID uuid.UUID, verified bool) (*ReviewDTO, error)
	ReplyToReview(ctx context.Context, reviewID uuid.UUID, reply string) (*ReviewDTO, error)
	DeleteReview(ctx context.Context, reviewID uuid.UUID) error
}

// ReviewDTO is the review payload returned to clients.
type ReviewDTO struct {
	ID           uuid.UUID  `json:"id"`
	ProductID    uuid.UUID  `json:"product_id"`
	CustomerName string     `json:"customer_name"`
	Rating       int        `json:"rating"`
	Comment      string     `json:"comment"`
	Reply        *string    `json:"reply,omitempty"`
	RepliedAt    *time.Time `json:"replied_at,omitempty"`
	Verified     bool       `json:"verified"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ProductReviewsDTO bundles the published reviews with the rating aggregate.
type ProductReviewsDTO struct {
	Reviews       []ReviewDTO `json:"reviews"`
	AverageRating float64     `json:"average_rating"`
	Count         int64       `json:"count"`
}

// SubmitReviewInput carries a storefront review submission. Phone is optional
// and only used to mark verified purchases; it is never stored on the review.
type SubmitReviewInput struct {
	ProductID    uuid.UUID
	CustomerName string
	Rating       int
	Comment      string
	Phone        string
}

// ListReviewsInput captures moderation list inputs.
type ListReviewsInput struct {
	Pagination  pagination.Params
	PendingOnly bool
}

// ListResult is one page of reviews.
type ListResult struct {
	Reviews    []ReviewDTO `json:"reviews"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

type productChecker interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo        *Repository
	productRepo productChecker
}

// NewService constructs a review service instance.
func NewService(repo *Repository, productRepo productChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("review repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, productRepo: productRepo}, nil
}

// SubmitReview stores a storefront review pending moderation.
func (s *service) SubmitReview(ctx context.Context, input SubmitReviewInput) (*ReviewDTO, error) {
	name := strings.TrimSpace(input.CustomerName)
	comment := strings.TrimSpace(input.Comment)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer_name is required")
	}
	if comment == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	product, err := s.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	verified := false
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		verified, err = s.repo.HasDeliveredOrder(ctx, input.ProductID, phone)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check purchase history")
		}
	}

	review := &models.Review{
		ProductID:    input.ProductID,
		CustomerName: name,
		Rating:       input.Rating,
		Comment:      comment,
		Verified:     verified,
		IsActive:     false,
	}
	created, err := s.repo.CreateReview(ctx, review)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert review")
	}
	return newReviewDTO(created), nil
}

// ListProductReviews returns the published reviews with the rating aggregate.
func (s *service) ListProductReviews(ctx context.Context, productID uuid.UUID) (*ProductReviewsDTO, error) {
	rows, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list product reviews")
	}
	avg, count, err := s.repo.AverageRating(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate product rating")
	}

	dtos := make([]ReviewDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *newReviewDTO(&rows[i]))
	}
	return &ProductReviewsDTO{Reviews: dtos, AverageRating: avg, Count: count}, nil
}

// ListReviews pages through reviews for moderation.
func (s *service) ListReviews(ctx context.Context, input ListReviewsInput) (*ListResult, error) {
	rows, nextCursor, err := s.repo.ListReviews(ctx, reviewListQuery{
		Pagination: input.Pagination,
		Pending:    input.PendingOnly,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	dtos := make([]ReviewDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *newReviewDTO(&rows[i]))
	}
	return &ListResult{Reviews: dtos, NextCursor: nextCursor}, nil
}

// ApproveReview publishes or hides a review.
func (s *service) ApproveReview(ctx context.Context, reviewID uuid.UUID, approved bool) (*ReviewDTO, error) {
	review, err := s.load(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	review.IsActive = approved
	if _, err := s.repo.UpdateReview(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update review")
	}
	return newReviewDTO(review), nil
}

// VerifyReview toggles the verified-purchase badge, overriding the automatic
// phone match from submission.
func (s *service) VerifyReview(ctx context.Context, reviewID uuid.UUID, verified bool) (*ReviewDTO, error) {
	review, err := s.load(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	review.Verified = verified
	if _, err := s.repo.UpdateReview(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update review")
	}
	return newReviewDTO(review), nil
}

// ReplyToReview records the staff reply.
func (s *service) ReplyToReview(ctx context.Context, reviewID uuid.UUID, reply string) (*ReviewDTO, error) {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reply is required")
	}

	review, err := s.load(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	review.Reply = &reply
	review.RepliedAt = &now
	if _, err := s.repo.UpdateReview(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update review")
	}
	return newReviewDTO(review), nil
}

// DeleteReview removes a review entirely.
func (s *service) DeleteReview(ctx context.Context, reviewID uuid.UUID) error {
	if _, err := s.load(ctx, reviewID); err != nil {
		return err
	}
	if err := s.repo.DeleteReview(ctx, reviewID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete review")
	}
	return nil
}

func (s *service) load(ctx context.Context, reviewID uuid.UUID) (*models.Review, error) {
	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	return review, nil
}

func newReviewDTO(review *models.Review) *ReviewDTO {
	return &ReviewDTO{
		ID:           review.ID,
		ProductID:    review.ProductID,
		CustomerName: review.CustomerName,
		Rating:       review.Rating,
		Comment:      review.Comment,
		Reply:        review.Reply,
		RepliedAt:    review.RepliedAt,
		Verified:     review.Verified,
		IsActive:     review.IsActive,
		CreatedAt:    review.CreatedAt,
	}
}
