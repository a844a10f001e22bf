package services

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/Subhom1/clickmate-backend/models"
	"github.com/google/uuid"
)

// scoredCandidate is a candidate request that cleared the acceptance
// threshold on the current tick
type scoredCandidate struct {
	models.SearchRequest
	Score float64
}

// runSearch is one pairing-engine task. It polls the candidate pool until it
// commits a pairing, hits the wall-clock deadline, or is cancelled; every
// terminal state emits exactly one notification to the owning connection.
func (s *SearchService) runSearch(ctx context.Context, entry *SearchEntry, query string) {
	deadline := time.Now().Add(s.Config.Timeout)
	ticker := time.NewTicker(s.Config.TickInterval)
	defer ticker.Stop()

	for {
		matched, err := s.tick(ctx, entry, query)
		switch {
		case err != nil && ctx.Err() != nil:
			s.finishCancelled(ctx, entry)
			return
		case err != nil:
			s.finishFailed(ctx, entry, err)
			return
		case matched:
			return
		}

		if !time.Now().Before(deadline) {
			s.finishTimedOut(ctx, entry)
			return
		}

		select {
		case <-ctx.Done():
			s.finishCancelled(ctx, entry)
			return
		case <-ticker.C:
		}
	}
}

// tick scans the candidate pool once and attempts to commit against the
// best-scoring candidates in order. It reports a store error to the caller;
// scorer errors and lock conflicts are absorbed here.
func (s *SearchService) tick(ctx context.Context, entry *SearchEntry, query string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	candidates, err := s.Store.ListCandidates(ctx, entry.UserID)
	if err != nil {
		return false, err
	}

	ranked := s.scoreCandidates(ctx, query, candidates)
	if err := ctx.Err(); err != nil {
		return false, err
	}

	for _, cand := range ranked {
		committed, err := s.tryCommit(ctx, entry, cand)
		if err != nil {
			return false, err
		}
		if committed {
			return true, nil
		}
	}
	return false, nil
}

// scoreCandidates rates every candidate against the searcher's query and
// returns those at or above the threshold, best first. Ties break on
// earliest createdAt, then lowest userId, so candidate order never depends
// on scan order.
func (s *SearchService) scoreCandidates(ctx context.Context, query string, candidates []models.SearchRequest) []scoredCandidate {
	ranked := make([]scoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		score, err := s.Scorer.Score(ctx, query, c.Query)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Printf("scorer failed for candidate %s, skipping: %v", c.UserID, err)
			continue
		}
		if score >= s.Config.Threshold {
			ranked = append(ranked, scoredCandidate{SearchRequest: c, Score: score})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if ranked[i].CreatedAt != ranked[j].CreatedAt {
			return ranked[i].CreatedAt < ranked[j].CreatedAt
		}
		return ranked[i].UserID < ranked[j].UserID
	})
	return ranked
}

// tryCommit attempts to claim both sides of the pairing. Locks are taken in
// a global order (lowest userId first) so two engines racing for the same
// pair contend on the same first lock and one of them always wins.
func (s *SearchService) tryCommit(ctx context.Context, entry *SearchEntry, cand scoredCandidate) (bool, error) {
	first, second := entry.UserID, cand.UserID
	if second < first {
		first, second = second, first
	}

	ok, err := s.Store.TryLock(ctx, first)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	ok, err = s.Store.TryLock(ctx, second)
	if err != nil {
		s.releaseLock(ctx, first)
		return false, err
	}
	if !ok {
		s.releaseLock(ctx, first)
		return false, nil
	}

	if err := s.commit(ctx, entry, cand); err != nil {
		return false, err
	}
	return true, nil
}

// commit is the terminal Matched transition: create the MatchPair, consume
// both SearchRequests, and notify both sides. Called with both locks held.
func (s *SearchService) commit(ctx context.Context, entry *SearchEntry, cand scoredCandidate) error {
	pair := models.MatchPair{
		MatchID:    uuid.NewString(),
		UserA:      entry.UserID,
		UserB:      cand.UserID,
		Similarity: cand.Score,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := s.Store.CreateMatchPair(ctx, pair); err != nil {
		s.releaseLock(ctx, entry.UserID)
		s.releaseLock(ctx, cand.UserID)
		return err
	}

	// Commit point. The cleanup below must run to completion even if this
	// task gets cancelled mid-flight.
	cctx := context.WithoutCancel(ctx)
	if err := s.Store.DeleteSearch(cctx, entry.UserID); err != nil {
		log.Printf("failed to delete consumed search for %s: %v", entry.UserID, err)
	}
	if err := s.Store.DeleteSearch(cctx, cand.UserID); err != nil {
		log.Printf("failed to delete consumed search for %s: %v", cand.UserID, err)
	}

	if partner, ok := s.Registry.Get(cand.UserID); ok {
		s.Registry.Remove(cand.UserID, partner)
		partner.Cancel()
	}
	s.Registry.Remove(entry.UserID, entry)

	s.Notifier.Notify(entry.UserID, EventSearchUpdate, matchFoundPayload(s.loadProfile(cctx, cand.UserID), cand.Score))
	s.Notifier.Notify(cand.UserID, EventSearchUpdate, matchFoundPayload(s.loadProfile(cctx, entry.UserID), cand.Score))

	log.Printf("match committed: %s and %s (similarity %.2f)", entry.UserID, cand.UserID, cand.Score)
	return nil
}

// finishCancelled is the terminal Cancelled transition. A task whose entry
// was already removed lost the race to a commit or a resubmit and exits
// without touching shared state.
func (s *SearchService) finishCancelled(ctx context.Context, entry *SearchEntry) {
	if !s.Registry.Remove(entry.UserID, entry) {
		return
	}
	cctx := context.WithoutCancel(ctx)
	if err := s.Store.DeleteSearch(cctx, entry.UserID); err != nil {
		log.Printf("failed to delete cancelled search for %s: %v", entry.UserID, err)
	}
	s.Notifier.Notify(entry.UserID, EventSearchUpdate, map[string]interface{}{
		"cancel":  true,
		"message": "Search has been cancelled",
	})
}

// finishTimedOut is the terminal TimedOut transition
func (s *SearchService) finishTimedOut(ctx context.Context, entry *SearchEntry) {
	if !s.Registry.Remove(entry.UserID, entry) {
		return
	}
	cctx := context.WithoutCancel(ctx)
	if err := s.Store.DeleteSearch(cctx, entry.UserID); err != nil {
		log.Printf("failed to delete timed-out search for %s: %v", entry.UserID, err)
	}
	s.Notifier.Notify(entry.UserID, EventSearchUpdate, map[string]interface{}{
		"matches": nil,
		"message": "No result found",
	})
}

// finishFailed terminates the task after a store outage: release whatever
// lock might still be held, tell the user, stop retrying
func (s *SearchService) finishFailed(ctx context.Context, entry *SearchEntry, cause error) {
	log.Printf("search task for %s aborted: %v", entry.UserID, cause)
	if !s.Registry.Remove(entry.UserID, entry) {
		return
	}
	s.releaseLock(ctx, entry.UserID)
	s.Notifier.Notify(entry.UserID, EventSearchError, map[string]interface{}{
		"message": "An error occurred while checking for matches.",
	})
}

func (s *SearchService) releaseLock(ctx context.Context, userID string) {
	if err := s.Store.Unlock(context.WithoutCancel(ctx), userID); err != nil {
		log.Printf("failed to release lock for %s: %v", userID, err)
	}
}

func (s *SearchService) loadProfile(ctx context.Context, userID string) *models.UserProfile {
	if s.Profiles != nil {
		if profile, err := s.Profiles.GetProfileByID(ctx, userID); err == nil && profile != nil {
			return profile
		}
	}
	return &models.UserProfile{UserID: userID}
}

func matchFoundPayload(user *models.UserProfile, score float64) map[string]interface{} {
	return map[string]interface{}{
		"matches": map[string]interface{}{
			"user":       user,
			"similarity": score,
		},
		"message": "Search result found",
	}
}
