package activity

import (
	"context"
	"log/slog"
)

// DeleteResult reports the outcome of a bulk deletion.
type DeleteResult struct {
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	FailedIDs []string `json:"failed_ids"`
}

// DeleteEach deletes every id independently. A failed deletion is recorded
// and the remaining ids are still attempted.
func DeleteEach(ctx context.Context, deleter Deleter, tenantID string, ids []string, logger *slog.Logger) DeleteResult {
	result := DeleteResult{FailedIDs: []string{}}
	for _, id := range ids {
		if err := deleter.Delete(ctx, tenantID, id); err != nil {
			result.Failed++
			result.FailedIDs = append(result.FailedIDs, id)
			if logger != nil {
				logger.Warn("failed to delete activity event", "event_id", id, "error", err)
			}
			continue
		}
		result.Succeeded++
	}
	return result
}
