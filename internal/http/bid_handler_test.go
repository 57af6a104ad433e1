package http

import (
	"net/http"
	"testing"
)

func TestBidHandler_ListOwnRequiresMine(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "+15550000001")
	if code, _ := s.do(t, http.MethodGet, "/bids", token, nil); code != http.StatusBadRequest {
		t.Fatalf("expected 400 without mine=true, got %d", code)
	}
	if code, _ := s.do(t, http.MethodGet, "/bids?mine=false", token, nil); code != http.StatusBadRequest {
		t.Fatalf("expected 400 with mine=false, got %d", code)
	}
}

func TestBidHandler_SetStatusValidation(t *testing.T) {
	s := newTestServer(t)
	host := s.login(t, "+15550000001")
	bidder := s.login(t, "+15550000002")
	_, env := s.do(t, http.MethodPost, "/tables", host, map[string]string{"tableName": "A"})
	tableID := env.TableID
	_, env = s.do(t, http.MethodPost, "/tables/"+tableID+"/bids", bidder, map[string]any{"bidAmount": 10})
	bidID := env.BidID

	path := "/tables/" + tableID + "/bids/" + bidID
	if code, _ := s.do(t, http.MethodPatch, path, host, map[string]string{"status": "accepted"}); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid status, got %d", code)
	}
	if code, _ := s.do(t, http.MethodPatch, path, host, map[string]string{}); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing status, got %d", code)
	}
	if code, _ := s.do(t, http.MethodPatch, path, bidder, map[string]string{"status": "approved"}); code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-host, got %d", code)
	}
	if code, _ := s.do(t, http.MethodPatch, "/tables/"+tableID+"/bids/missing", host, map[string]string{"status": "approved"}); code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing bid, got %d", code)
	}
	if code, _ := s.do(t, http.MethodPatch, path, host, map[string]string{"status": "denied"}); code != http.StatusOK {
		t.Fatalf("expected deny to succeed, got %d", code)
	}
}

func TestBidHandler_CancelPendingBid(t *testing.T) {
	s := newTestServer(t)
	bidder := s.login(t, "+15550000002")
	other := s.login(t, "+15550000003")
	_, env := s.do(t, http.MethodPost, "/tables/any-table/bids", bidder, map[string]any{"joinerName": "Sam"})
	bidID := env.BidID

	if code, _ := s.do(t, http.MethodDelete, "/bids/"+bidID, other, nil); code != http.StatusForbidden {
		t.Fatalf("expected 403 cancelling someone else's bid, got %d", code)
	}
	if code, _ := s.do(t, http.MethodDelete, "/bids/"+bidID, bidder, nil); code != http.StatusOK {
		t.Fatalf("expected cancel to succeed, got %d", code)
	}
	if code, _ := s.do(t, http.MethodDelete, "/bids/"+bidID, bidder, nil); code != http.StatusNotFound {
		t.Fatalf("expected 404 on second cancel, got %d", code)
	}
}

func TestBidHandler_RemoveMemberNoApprovedBid(t *testing.T) {
	s := newTestServer(t)
	host := s.login(t, "+15550000001")
	bidder := s.login(t, "+15550000002")
	_, env := s.do(t, http.MethodPost, "/tables", host, map[string]string{"tableName": "A"})
	tableID := env.TableID
	_, env = s.do(t, http.MethodPost, "/tables/"+tableID+"/bids", bidder, map[string]any{})
	bidID := env.BidID

	if code, _ := s.do(t, http.MethodDelete, "/tables/"+tableID+"/members/+15550000002", host, nil); code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
	if _, err := s.bids.GetByID(t.Context(), bidID); err != nil {
		t.Fatalf("expected pending bid kept, got %v", err)
	}
}

func TestBidHandler_CreateRejectsNonObjectBody(t *testing.T) {
	s := newTestServer(t)
	bidder := s.login(t, "+15550000002")

	for _, body := range []string{"null", "[]", "42"} {
		if code, env := s.do(t, http.MethodPost, "/tables/any-table/bids", bidder, body); code != http.StatusBadRequest || env.Success {
			t.Fatalf("body %q: expected 400, got %d %+v", body, code, env)
		}
	}

	_, env := s.do(t, http.MethodGet, "/bids?mine=true", bidder, nil)
	if string(env.Data) != "[]" {
		t.Fatalf("expected no bid stored, got %s", env.Data)
	}
}
