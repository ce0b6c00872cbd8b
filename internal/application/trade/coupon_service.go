package trade

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/shared"
	"github.com/NhieuThienAn/CoCo-Shop-sub003/internal/domain/trade"
	"github.com/google/uuid"
)

// CouponService handles coupon administration and validation
type CouponService struct {
	couponRepo trade.CouponRepository
}

// NewCouponService creates a new CouponService
func NewCouponService(couponRepo trade.CouponRepository) *CouponService {
	return &CouponService{couponRepo: couponRepo}
}

// Create registers a new coupon. Codes are stored uppercase.
func (s *CouponService) Create(ctx context.Context, req CreateCouponRequest) (*CouponResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	existing, err := s.couponRepo.FindByCode(ctx, code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("COUPON_CODE_TAKEN", "A coupon with this code already exists")
	}

	coupon, err := trade.NewCoupon(code, req.Description, trade.DiscountType(req.DiscountType),
		req.DiscountValue, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	coupon.MaxDiscount = req.MaxDiscount
	coupon.MinCartValue = req.MinCartValue
	coupon.UsageLimit = req.UsageLimit

	if err := s.couponRepo.Save(ctx, coupon); err != nil {
		return nil, err
	}
	return ToCouponResponse(coupon), nil
}

// Validate checks a coupon against a cart subtotal without consuming it.
// Rejections come back as a stable reason code, not an error.
func (s *CouponService) Validate(ctx context.Context, req ValidateCouponRequest) (*ValidateCouponResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	coupon, err := s.couponRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &ValidateCouponResponse{Valid: false, Reason: trade.CouponReasonNotFound}, nil
		}
		return nil, err
	}

	if err := coupon.Validate(req.CartSubtotal, time.Now()); err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return &ValidateCouponResponse{Valid: false, Reason: domainErr.Code}, nil
		}
		return nil, err
	}

	return &ValidateCouponResponse{
		Valid:    true,
		Discount: coupon.DiscountFor(req.CartSubtotal),
	}, nil
}

// GetByID retrieves one coupon
func (s *CouponService) GetByID(ctx context.Context, id uuid.UUID) (*CouponResponse, error) {
	coupon, err := s.couponRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToCouponResponse(coupon), nil
}

// List retrieves coupons
func (s *CouponService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*CouponResponse], error) {
	page, err := s.couponRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]*CouponResponse, 0, len(page.Items))
	for _, c := range page.Items {
		items = append(items, ToCouponResponse(c))
	}
	mapped := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &mapped, nil
}

// Deactivate turns a coupon off
func (s *CouponService) Deactivate(ctx context.Context, id uuid.UUID) (*CouponResponse, error) {
	coupon, err := s.couponRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	coupon.Deactivate()
	if err := s.couponRepo.Save(ctx, coupon); err != nil {
		return nil, err
	}
	return ToCouponResponse(coupon), nil
}

// Activate turns a coupon back on
func (s *CouponService) Activate(ctx context.Context, id uuid.UUID) (*CouponResponse, error) {
	coupon, err := s.couponRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	coupon.Activate()
	if err := s.couponRepo.Save(ctx, coupon); err != nil {
		return nil, err
	}
	return ToCouponResponse(coupon), nil
}

// Delete removes a coupon that has never been used
func (s *CouponService) Delete(ctx context.Context, id uuid.UUID) error {
	coupon, err := s.couponRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if coupon.UsedCount > 0 {
		return shared.NewDomainError("COUPON_IN_USE", "Cannot delete a coupon that has been used")
	}
	return s.couponRepo.Delete(ctx, id)
}
