package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tablebid/internal/domain"
	"tablebid/internal/repository"
)

// TableService administra las mesas publicadas por cada host.
type TableService struct {
	logger *zap.Logger
	tables repository.TableRepository
	now    func() time.Time
}

func NewTableService(logger *zap.Logger, tables repository.TableRepository) *TableService {
	return &TableService{
		logger: logger,
		tables: tables,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateTable guarda la mesa con hostID como dueño y devuelve su id.
func (s *TableService) CreateTable(ctx context.Context, hostID string, fields domain.TableFields) (string, error) {
	if strings.TrimSpace(hostID) == "" {
		return "", ErrUnauthenticated
	}
	table := domain.Table{
		ID:          uuid.NewString(),
		HostID:      hostID,
		TableFields: fields,
		CreatedAt:   s.now(),
	}
	if err := s.tables.Create(ctx, table); err != nil {
		return "", err
	}
	s.logger.Info("table created", zap.String("table_id", table.ID), zap.String("host_id", hostID))
	return table.ID, nil
}

func (s *TableService) ListHostedTables(ctx context.Context, hostID string) ([]domain.Table, error) {
	return s.tables.ListByHost(ctx, hostID)
}

// ListAllTables devuelve todas las mesas; todas se consideran publicas.
func (s *TableService) ListAllTables(ctx context.Context) ([]domain.Table, error) {
	return s.tables.ListAll(ctx)
}

func (s *TableService) GetTable(ctx context.Context, id string) (domain.Table, error) {
	table, err := s.tables.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Table{}, ErrTableNotFound
		}
		return domain.Table{}, err
	}
	return table, nil
}

// DeleteTable borra la mesa si hostID es su dueño. Las pujas de la mesa no se borran.
func (s *TableService) DeleteTable(ctx context.Context, hostID, id string) error {
	if _, err := s.ownedTable(ctx, hostID, id); err != nil {
		return err
	}
	if err := s.tables.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTableNotFound
		}
		return err
	}
	s.logger.Info("table deleted", zap.String("table_id", id), zap.String("host_id", hostID))
	return nil
}

// ownedTable carga la mesa y verifica que pertenezca a hostID.
func (s *TableService) ownedTable(ctx context.Context, hostID, id string) (domain.Table, error) {
	table, err := s.GetTable(ctx, id)
	if err != nil {
		return domain.Table{}, err
	}
	if table.HostID != hostID {
		return domain.Table{}, ErrNotTableHost
	}
	return table, nil
}
