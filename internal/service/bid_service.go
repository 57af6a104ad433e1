package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tablebid/internal/domain"
	"tablebid/internal/repository"
)

// BidService maneja el ciclo de vida de las pujas:
// pending -> approved | denied por el host, pending -> borrada por quien pujo,
// approved -> borrada por el host.
type BidService struct {
	logger *zap.Logger
	tables *TableService
	bids   repository.BidRepository
	now    func() time.Time
}

func NewBidService(logger *zap.Logger, tables *TableService, bids repository.BidRepository) *BidService {
	return &BidService{
		logger: logger,
		tables: tables,
		bids:   bids,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateBid registra una puja pendiente. No verifica que la mesa exista ni que quien puja
// no sea el host.
func (s *BidService) CreateBid(ctx context.Context, bidderID, tableID string, fields domain.BidFields) (string, error) {
	if strings.TrimSpace(bidderID) == "" {
		return "", ErrUnauthenticated
	}
	if strings.TrimSpace(tableID) == "" {
		return "", fmt.Errorf("%w: table id is required", ErrInvalidInput)
	}
	bid := domain.Bid{
		ID:        uuid.NewString(),
		TableID:   tableID,
		UserID:    bidderID,
		Status:    domain.BidPending,
		BidFields: fields,
		CreatedAt: s.now(),
	}
	if err := s.bids.Create(ctx, bid); err != nil {
		return "", err
	}
	s.logger.Info("bid created", zap.String("bid_id", bid.ID), zap.String("table_id", tableID), zap.String("user_id", bidderID))
	return bid.ID, nil
}

func (s *BidService) ListBidsForTable(ctx context.Context, hostID, tableID string) ([]domain.Bid, error) {
	if _, err := s.tables.ownedTable(ctx, hostID, tableID); err != nil {
		return nil, err
	}
	return s.bids.ListByTable(ctx, tableID)
}

// SetBidStatus sobrescribe el estado sin mirar el anterior; aprobar o rechazar de nuevo es valido.
func (s *BidService) SetBidStatus(ctx context.Context, hostID, tableID, bidID string, status domain.BidStatus) error {
	if _, err := s.tables.ownedTable(ctx, hostID, tableID); err != nil {
		return err
	}
	bid, err := s.bids.GetByID(ctx, bidID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBidNotFound
		}
		return err
	}
	if bid.TableID != tableID {
		return ErrBidNotFound
	}
	if !status.IsHostDecision() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if err := s.bids.UpdateStatus(ctx, bidID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBidNotFound
		}
		return err
	}
	s.logger.Info("bid status set", zap.String("bid_id", bidID), zap.String("status", string(status)))
	return nil
}

func (s *BidService) ListOwnBids(ctx context.Context, bidderID string) ([]domain.Bid, error) {
	return s.bids.ListByUser(ctx, bidderID)
}

// CancelOwnBid borra una puja propia que sigue pendiente.
func (s *BidService) CancelOwnBid(ctx context.Context, bidderID, bidID string) error {
	bid, err := s.bids.GetByID(ctx, bidID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBidNotFound
		}
		return err
	}
	if bid.UserID != bidderID {
		return ErrNotBidOwner
	}
	if bid.Status != domain.BidPending {
		return fmt.Errorf("%w: cannot remove a bid that is not pending", ErrInvalidState)
	}
	deleted, err := s.bids.DeleteIfStatus(ctx, bidID, domain.BidPending)
	if err != nil {
		return err
	}
	if !deleted {
		// Cambio de estado o borrado concurrente entre la lectura y el borrado.
		return fmt.Errorf("%w: bid is no longer pending", ErrInvalidState)
	}
	s.logger.Info("bid cancelled", zap.String("bid_id", bidID), zap.String("user_id", bidderID))
	return nil
}

// RemoveApprovedMember expulsa a un miembro aprobado de la mesa. Si hubiera varias pujas
// aprobadas del mismo usuario se borra la mas antigua.
func (s *BidService) RemoveApprovedMember(ctx context.Context, hostID, tableID, memberUserID string) error {
	if _, err := s.tables.ownedTable(ctx, hostID, tableID); err != nil {
		return err
	}
	bid, err := s.bids.FindOldest(ctx, tableID, memberUserID, domain.BidApproved)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMemberNotFound
		}
		return err
	}
	deleted, err := s.bids.DeleteIfStatus(ctx, bid.ID, domain.BidApproved)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrMemberNotFound
	}
	s.logger.Info("member removed", zap.String("bid_id", bid.ID), zap.String("table_id", tableID), zap.String("user_id", memberUserID))
	return nil
}
