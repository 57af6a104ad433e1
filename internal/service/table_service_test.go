package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"tablebid/internal/domain"
	"tablebid/internal/repository"
)

func newTestTableService() (*TableService, *repository.MemoryTableRepository) {
	repo := repository.NewMemoryTableRepository()
	return NewTableService(zap.NewNop(), repo), repo
}

func floatPtr(v float64) *float64 { return &v }

func TestTableServiceCreateTable_AssignsHost(t *testing.T) {
	svc, _ := newTestTableService()
	ctx := context.Background()

	id, err := svc.CreateTable(ctx, "+15551230000", domain.TableFields{TableName: "VIP", MinJoiningFee: floatPtr(50)})
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	table, err := svc.GetTable(ctx, id)
	if err != nil {
		t.Fatalf("get table: %v", err)
	}
	if table.HostID != "+15551230000" || table.TableName != "VIP" || *table.MinJoiningFee != 50 {
		t.Fatalf("unexpected table %+v", table)
	}
	if table.CreatedAt.IsZero() {
		t.Fatalf("expected server timestamp")
	}
}

func TestTableServiceCreateTable_RequiresHost(t *testing.T) {
	svc, _ := newTestTableService()
	if _, err := svc.CreateTable(context.Background(), "", domain.TableFields{}); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestTableServiceListHostedAndAll(t *testing.T) {
	svc, _ := newTestTableService()
	ctx := context.Background()
	_, _ = svc.CreateTable(ctx, "host-a", domain.TableFields{TableName: "A1"})
	_, _ = svc.CreateTable(ctx, "host-b", domain.TableFields{TableName: "B1"})
	_, _ = svc.CreateTable(ctx, "host-a", domain.TableFields{TableName: "A2"})

	hosted, err := svc.ListHostedTables(ctx, "host-a")
	if err != nil || len(hosted) != 2 {
		t.Fatalf("expected 2 hosted tables, got %d (%v)", len(hosted), err)
	}
	for _, table := range hosted {
		if table.HostID != "host-a" {
			t.Fatalf("unexpected host %s", table.HostID)
		}
	}
	all, err := svc.ListAllTables(ctx)
	if err != nil || len(all) != 3 {
		t.Fatalf("expected 3 tables, got %d (%v)", len(all), err)
	}
}

func TestTableServiceGetTable_NotFound(t *testing.T) {
	svc, _ := newTestTableService()
	_, err := svc.GetTable(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTableServiceDeleteTable_NonHostForbidden(t *testing.T) {
	svc, _ := newTestTableService()
	ctx := context.Background()
	id, _ := svc.CreateTable(ctx, "host-a", domain.TableFields{TableName: "VIP"})

	err := svc.DeleteTable(ctx, "intruder", id)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.GetTable(ctx, id); err != nil {
		t.Fatalf("expected table intact, got %v", err)
	}
}

func TestTableServiceDeleteTable_ByHost(t *testing.T) {
	svc, _ := newTestTableService()
	ctx := context.Background()
	id, _ := svc.CreateTable(ctx, "host-a", domain.TableFields{})

	if err := svc.DeleteTable(ctx, "host-a", id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteTable(ctx, "host-a", id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
