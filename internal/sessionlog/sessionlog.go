// Package sessionlog keeps a daily append-only JSONL audit of derived
// session reports. Entries are best-effort: a logging failure never
// blocks serving the report.
package sessionlog

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"tradequest-server/internal/types"
)

var mu sync.Mutex

// Entry is one session snapshot summary.
type Entry struct {
	Time        string             `json:"time"`
	TotalTrades int                `json:"totalTrades"`
	Stats       types.SessionStats `json:"stats"`
	Balance     *float64           `json:"balance,omitempty"`
	Currency    string             `json:"currency"`
}

func logDir() string {
	if v := os.Getenv("SESSION_LOG_DIR"); v != "" {
		return v
	}
	return "logs"
}

func dailyFilepath(t time.Time) string {
	return filepath.Join(logDir(), t.UTC().Format("2006-01-02")+".txt")
}

// Append records one derived session report.
func Append(report *types.SessionReport) error {
	mu.Lock()
	defer mu.Unlock()

	now := time.Now().UTC()
	e := Entry{
		Time:        now.Format("2006-01-02 15:04:05"),
		TotalTrades: report.Stats.TotalTrades,
		Stats:       report.Stats,
		Balance:     report.Balance,
		Currency:    report.Currency,
	}

	p := dailyFilepath(now)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, _ := json.Marshal(e)
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips daily files older than retentionDays and removes
// the originals. Zero or negative retention disables compression.
func CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(logDir(), func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".txt" {
			return nil
		}
		info, er := os.Stat(p)
		if er != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		gz := p + ".gz"
		if _, e2 := os.Stat(gz); e2 == nil {
			_ = os.Remove(p)
			return nil
		}
		in, e3 := os.Open(p)
		if e3 != nil {
			return nil
		}
		defer in.Close()
		out, e4 := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if e4 != nil {
			return nil
		}
		gw := gzip.NewWriter(out)
		if _, e5 := io.Copy(gw, in); e5 == nil {
			_ = gw.Close()
			_ = out.Close()
			_ = os.Remove(p)
		} else {
			_ = gw.Close()
			_ = out.Close()
		}
		return nil
	})
}
