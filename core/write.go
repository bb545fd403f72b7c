package core

import "fmt"

// WriteStatus tells how a persisted write ended.
type WriteStatus int

const (
	WriteOK WriteStatus = iota
	WriteQuotaExceeded
	WriteFailed
)

func (s WriteStatus) String() string {
	switch s {
	case WriteOK:
		return "ok"
	case WriteQuotaExceeded:
		return "quota exceeded"
	case WriteFailed:
		return "failed"
	default:
		return fmt.Sprintf("WriteStatus(%d)", int(s))
	}
}

// WriteResult is returned by every persisted write. Writes are never retried.
type WriteResult struct {
	Key    string
	Status WriteStatus
	Err    error
}

func (r WriteResult) OK() bool { return r.Status == WriteOK }

// Warning is the user-facing message for a failed write, empty when the write succeeded.
func (r WriteResult) Warning() string {
	switch r.Status {
	case WriteOK:
		return ""
	case WriteQuotaExceeded:
		return "Storage is full: this large item may not survive a reload."
	default:
		return "Could not save your changes: they will be lost on reload."
	}
}

// WriteResults collects the writes issued by one operation.
type WriteResults []WriteResult

// Failed returns the results that did not succeed.
func (rs WriteResults) Failed() WriteResults {
	var failed WriteResults
	for _, r := range rs {
		if !r.OK() {
			failed = append(failed, r)
		}
	}
	return failed
}

// Warnings returns the distinct user-facing warnings of the failed writes.
func (rs WriteResults) Warnings() []string {
	var warnings []string
	seen := make(map[string]bool)
	for _, r := range rs.Failed() {
		if w := r.Warning(); !seen[w] {
			seen[w] = true
			warnings = append(warnings, w)
		}
	}
	return warnings
}
