package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/freefirelenden-cell/freefirelenden-sub000/models"
	"github.com/freefirelenden-cell/freefirelenden-sub000/repository"
)

type SubmitSellerRequest struct {
	ShopName      string `json:"shop_name" binding:"required"`
	Contact       string `json:"contact" binding:"required"`
	PayoutMethod  string `json:"payout_method" binding:"required"`
	PayoutAccount string `json:"payout_account" binding:"required"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

// OnboardingService owns the SellerRequest -> Seller promotion state
// machine. A request leaves pending exactly once; approval creates the
// seller record and elevates the applicant's role as one logical unit with
// compensating actions on partial failure.
type OnboardingService interface {
	SubmitRequest(ctx context.Context, userID string, req *SubmitSellerRequest) (*models.SellerRequest, *ServiceError)
	Approve(ctx context.Context, requestID, approverID string) (*models.Seller, *ServiceError)
	Reject(ctx context.Context, requestID, reason string) *ServiceError
	ListPending(ctx context.Context) ([]models.SellerRequest, *ServiceError)
	SetSellerStatus(ctx context.Context, sellerID, status string) *ServiceError
}

type onboardingServiceImpl struct {
	requests repository.SellerRequestRepository
	sellers  repository.SellerRepository
	users    repository.UserRepository
	logger   *zap.Logger
}

func NewOnboardingService(
	requests repository.SellerRequestRepository,
	sellers repository.SellerRepository,
	users repository.UserRepository,
	logger *zap.Logger,
) OnboardingService {
	return &onboardingServiceImpl{
		requests: requests,
		sellers:  sellers,
		users:    users,
		logger:   logger,
	}
}

func (s *onboardingServiceImpl) SubmitRequest(ctx context.Context, userID string, req *SubmitSellerRequest) (*models.SellerRequest, *ServiceError) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, errValidation("Invalid user ID format")
	}
	if req.ShopName == "" || req.Contact == "" || req.PayoutAccount == "" {
		return nil, errValidation("Shop name, contact and payout account are required")
	}
	if !models.PaymentMethod(req.PayoutMethod).Valid() {
		return nil, errValidation("Unsupported payout method")
	}

	if _, err := s.users.FindByID(ctx, userUUID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errNotFound("User not found")
		}
		s.logger.Error("Failed to fetch user", zap.String("user_id", userID), zap.Error(err))
		return nil, errInternal("Failed to fetch user")
	}

	if _, err := s.sellers.FindByUserID(ctx, userUUID); err == nil {
		return nil, errConflict("You already have a seller account")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		s.logger.Error("Failed to check existing seller", zap.String("user_id", userID), zap.Error(err))
		return nil, errInternal("Failed to check seller account")
	}

	pending, err := s.requests.HasPending(ctx, userUUID)
	if err != nil {
		s.logger.Error("Failed to check pending requests", zap.String("user_id", userID), zap.Error(err))
		return nil, errInternal("Failed to check pending requests")
	}
	if pending {
		return nil, errConflict("An application is already pending")
	}

	now := time.Now().UTC()
	request := &models.SellerRequest{
		ID:            uuid.New(),
		UserID:        userUUID,
		ShopName:      req.ShopName,
		Contact:       req.Contact,
		PayoutMethod:  req.PayoutMethod,
		PayoutAccount: req.PayoutAccount,
		Status:        models.RequestStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.requests.Create(ctx, request); err != nil {
		s.logger.Error("Failed to create seller request", zap.String("user_id", userID), zap.Error(err))
		return nil, errInternal("Failed to create application")
	}

	s.logger.Info("Seller application submitted",
		zap.String("request_id", request.ID.String()),
		zap.String("user_id", userID),
	)
	return request, nil
}

func (s *onboardingServiceImpl) Approve(ctx context.Context, requestID, approverID string) (*models.Seller, *ServiceError) {
	reqUUID, err := uuid.Parse(requestID)
	if err != nil {
		return nil, errValidation("Invalid request ID format")
	}
	approverUUID, err := uuid.Parse(approverID)
	if err != nil {
		return nil, errValidation("Invalid approver ID format")
	}

	// Claim first: the conditional pending -> approved write is what makes
	// a double-submitted approval observe a conflict instead of creating a
	// second seller.
	claimed, err := s.requests.ClaimApproval(ctx, reqUUID, approverUUID)
	if err != nil {
		s.logger.Error("Failed to claim approval", zap.String("request_id", requestID), zap.Error(err))
		return nil, errInternal("Failed to approve request")
	}
	if !claimed {
		request, err := s.requests.FindByID(ctx, reqUUID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, errNotFound("Request not found")
			}
			s.logger.Error("Failed to fetch request", zap.String("request_id", requestID), zap.Error(err))
			return nil, errInternal("Failed to fetch request")
		}
		if request.Status == models.RequestStatusApproved {
			return nil, errConflict("Request already approved")
		}
		return nil, errConflict("Request already rejected")
	}

	request, err := s.requests.FindByID(ctx, reqUUID)
	if err != nil {
		// The claim already went through; hand the request back so a
		// retry does not see it stuck in approved with no seller.
		s.reopen(ctx, reqUUID)
		s.logger.Error("Failed to fetch claimed request", zap.String("request_id", requestID), zap.Error(err))
		return nil, errInternal("Failed to fetch request")
	}

	now := time.Now().UTC()
	seller := &models.Seller{
		ID:            uuid.New(),
		UserID:        request.UserID,
		ShopName:      request.ShopName,
		Contact:       request.Contact,
		PayoutMethod:  request.PayoutMethod,
		PayoutAccount: request.PayoutAccount,
		// Approval grants selling rights; the verified badge is a
		// separate, later process.
		Verified:  false,
		Status:    models.SellerStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sellers.Create(ctx, seller); err != nil {
		s.reopen(ctx, reqUUID)
		s.logger.Error("Failed to create seller", zap.String("request_id", requestID), zap.Error(err))
		return nil, errInternal("Failed to create seller")
	}

	if svcErr := s.elevateRole(ctx, request.UserID); svcErr != nil {
		// Undo both earlier steps rather than leave an orphaned seller
		// with a non-elevated role.
		if err := s.sellers.Delete(ctx, seller.ID); err != nil {
			s.logger.Error("Failed to delete seller during rollback",
				zap.String("seller_id", seller.ID.String()),
				zap.Error(err),
			)
		}
		s.reopen(ctx, reqUUID)
		return nil, svcErr
	}

	s.logger.Info("Seller request approved",
		zap.String("request_id", requestID),
		zap.String("seller_id", seller.ID.String()),
		zap.String("approver_id", approverID),
	)
	return seller, nil
}

// elevateRole flips the applicant's role to seller, retrying once on a
// transient store failure.
func (s *onboardingServiceImpl) elevateRole(ctx context.Context, userID uuid.UUID) *ServiceError {
	var matched bool
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		matched, err = s.users.SetRole(ctx, userID, models.RoleSeller)
		if err == nil {
			break
		}
	}
	if err != nil {
		s.logger.Error("Failed to elevate user role", zap.String("user_id", userID.String()), zap.Error(err))
		return errInternal("Failed to elevate user role")
	}
	if !matched {
		s.logger.Error("Applicant user vanished during approval", zap.String("user_id", userID.String()))
		return errNotFound("Applicant user not found")
	}
	return nil
}

func (s *onboardingServiceImpl) reopen(ctx context.Context, requestID uuid.UUID) {
	if err := s.requests.Reopen(ctx, requestID); err != nil {
		s.logger.Error("Failed to reopen request during rollback",
			zap.String("request_id", requestID.String()),
			zap.Error(err),
		)
	}
}

func (s *onboardingServiceImpl) Reject(ctx context.Context, requestID, reason string) *ServiceError {
	reqUUID, err := uuid.Parse(requestID)
	if err != nil {
		return errValidation("Invalid request ID format")
	}
	if reason == "" {
		return errValidation("Rejection reason is required")
	}

	ok, err := s.requests.MarkRejected(ctx, reqUUID, reason)
	if err != nil {
		s.logger.Error("Failed to reject request", zap.String("request_id", requestID), zap.Error(err))
		return errInternal("Failed to reject request")
	}
	if !ok {
		request, err := s.requests.FindByID(ctx, reqUUID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return errNotFound("Request not found")
			}
			s.logger.Error("Failed to fetch request", zap.String("request_id", requestID), zap.Error(err))
			return errInternal("Failed to fetch request")
		}
		if request.Status == models.RequestStatusApproved {
			return errConflict("Request already approved")
		}
		return errConflict("Request already rejected")
	}

	s.logger.Info("Seller request rejected", zap.String("request_id", requestID))
	return nil
}

// SetSellerStatus is the admin suspend/reactivate switch. Suspended
// sellers keep their record but their listings stop being purchasable.
func (s *onboardingServiceImpl) SetSellerStatus(ctx context.Context, sellerID, status string) *ServiceError {
	id, err := uuid.Parse(sellerID)
	if err != nil {
		return errValidation("Invalid seller ID format")
	}
	sellerStatus := models.SellerStatus(status)
	if sellerStatus != models.SellerStatusActive && sellerStatus != models.SellerStatusSuspended {
		return errValidation("Status must be active or suspended")
	}

	ok, err := s.sellers.SetStatus(ctx, id, sellerStatus)
	if err != nil {
		s.logger.Error("Failed to set seller status", zap.String("seller_id", sellerID), zap.Error(err))
		return errInternal("Failed to update seller")
	}
	if !ok {
		return errNotFound("Seller not found")
	}

	s.logger.Info("Seller status updated", zap.String("seller_id", sellerID), zap.String("status", status))
	return nil
}

func (s *onboardingServiceImpl) ListPending(ctx context.Context) ([]models.SellerRequest, *ServiceError) {
	requests, err := s.requests.FindPending(ctx)
	if err != nil {
		s.logger.Error("Failed to list pending requests", zap.Error(err))
		return nil, errInternal("Failed to fetch requests")
	}
	return requests, nil
}
