// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openpoll/openpoll/identity"
	"github.com/openpoll/openpoll/ledger"
	"github.com/openpoll/openpoll/models"
	"github.com/openpoll/openpoll/results"
	"github.com/openpoll/openpoll/store"
	"github.com/openpoll/openpoll/testutil"
)

func TestGetResults(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.New(conn)
	cfg := testutil.GetTestConfig()
	resultsHandler := NewResultsHandler(results.NewService(st))
	vh := NewVotingHandler(ledger.New(st), identity.NewResolver(cfg.JWTSecret))

	ownerID := testutil.CreateTestUser(t, conn, "alice", "password123")
	bobID := testutil.CreateTestUser(t, conn, "bob", "password123")
	carolID := testutil.CreateTestUser(t, conn, "carol", "password123")
	pollID := testutil.CreateTestPoll(t, conn, ownerID, "Favorite color?", nil)
	red := testutil.AddTestOption(t, conn, pollID, "Red", 0)
	blue := testutil.AddTestOption(t, conn, pollID, "Blue", 1)

	// Three user votes: two Red, one Blue
	for uid, opt := range map[string]string{ownerID: red, bobID: red, carolID: blue} {
		w := castVote(t, vh, pollID, opt, map[string]string{"Authorization": testutil.AuthHeader(t, uid)})
		testutil.AssertStatus(t, w, http.StatusCreated)
	}
	// Two guest votes: one Red, one Blue
	testutil.AssertStatus(t, castVote(t, vh, pollID, red, map[string]string{"X-Session-ID": "g1"}), http.StatusCreated)
	testutil.AssertStatus(t, castVote(t, vh, pollID, blue, map[string]string{"X-Session-ID": "g2"}), http.StatusCreated)

	req := testutil.MakeRequest("GET", "/polls/"+pollID+"/results", nil, nil)
	req.SetPathValue("id", pollID)
	w := httptest.NewRecorder()
	resultsHandler.GetResults(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ResultsResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Question != "Favorite color?" {
		t.Errorf("Expected question, got %q", resp.Question)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("Expected 2 result rows, got %d", len(resp.Results))
	}
	// Creation order, user and guest votes merged
	if resp.Results[0].Option != "Red" || resp.Results[0].Votes != 3 {
		t.Errorf("Expected Red with 3 votes, got %+v", resp.Results[0])
	}
	if resp.Results[1].Option != "Blue" || resp.Results[1].Votes != 2 {
		t.Errorf("Expected Blue with 2 votes, got %+v", resp.Results[1])
	}
}

func TestGetResultsZeroVotes(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.New(conn)
	handler := NewResultsHandler(results.NewService(st))

	ownerID := testutil.CreateTestUser(t, conn, "alice", "password123")
	pollID := testutil.CreateTestPoll(t, conn, ownerID, "Anyone there?", nil)
	testutil.AddTestOption(t, conn, pollID, "Yes", 0)
	testutil.AddTestOption(t, conn, pollID, "No", 1)

	req := testutil.MakeRequest("GET", "/polls/"+pollID+"/results", nil, nil)
	req.SetPathValue("id", pollID)
	w := httptest.NewRecorder()
	handler.GetResults(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ResultsResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Results) != 2 {
		t.Fatalf("Expected 2 result rows, got %d", len(resp.Results))
	}
	for _, r := range resp.Results {
		if r.Votes != 0 {
			t.Errorf("Expected 0 votes for %s, got %d", r.Option, r.Votes)
		}
	}
}

func TestGetResultsUnknownPoll(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewResultsHandler(results.NewService(store.New(conn)))

	req := testutil.MakeRequest("GET", "/polls/nope/results", nil, nil)
	req.SetPathValue("id", "nope")
	w := httptest.NewRecorder()
	handler.GetResults(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
}
