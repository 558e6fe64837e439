package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	indexsvc "github.com/Paintersrp/journaldb/internal/services/index"
)

// IndexStatus reports entry and document counts as a single status line.
func (s *State) IndexStatus(ctx context.Context) (string, error) {
	if s == nil || s.Indexer == nil {
		return "", errors.New("search index is not open")
	}

	stats, err := s.Indexer.Stats(ctx)
	if err != nil {
		return "", err
	}
	return formatIndexStatus(stats), nil
}

func formatIndexStatus(stats indexsvc.Stats) string {
	parts := []string{fmt.Sprintf("Idx: entries %d", stats.Entries), fmt.Sprintf("documents %d", stats.Documents)}
	if !stats.InSync() {
		parts = append(parts, "out of sync")
	}
	if !stats.LastRebuild.IsZero() {
		parts = append(parts, fmt.Sprintf("rebuilt %s", formatRebuildTime(stats.LastRebuild)))
	}

	return strings.Join(parts, " · ")
}

func formatRebuildTime(t time.Time) string {
	return t.Local().Format("15:04")
}
