package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/bhavyajain7773/ATF-Design/core"
)

// KeyLock holds the advisory lock of the process writing the records.
// It is not one of the five records: Clear and Load leave it alone.
const KeyLock = "atf_lock"

// ErrLocked is returned by Lock while another process holds the lock.
var ErrLocked = errors.New("storage is locked by another process")

// LockInfo identifies the holder of the lock.
type LockInfo struct {
	Owner string    `json:"owner"`
	PID   int       `json:"pid"`
	Since time.Time `json:"since"`
}

func (li LockInfo) String() string {
	return fmt.Sprintf("%s (pid %d) since %s", li.Owner, li.PID, li.Since.Format(time.RFC3339))
}

func (li LockInfo) same(other LockInfo) bool {
	return li.Owner == other.Owner && li.PID == other.PID && li.Since.Equal(other.Since)
}

// Lock takes the advisory lock for owner.
// Every process writing through an AppState must hold it, so that two
// processes never keep diverging copies of the records in memory.
func (s *Store) Lock(ctx context.Context, owner string) (LockInfo, error) {
	info := LockInfo{Owner: owner, PID: os.Getpid(), Since: core.NowFunc().UTC()}
	data, err := json.Marshal(info)
	if err != nil {
		return LockInfo{}, errors.Wrap(err, "encoding lock")
	}

	ok, err := s.backend.SetIfAbsent(ctx, KeyLock, data)
	if err != nil {
		return LockInfo{}, errors.Wrap(err, "taking lock")
	}
	if !ok {
		if holder, held, _ := s.LockHolder(ctx); held {
			return LockInfo{}, errors.Wrapf(ErrLocked, "held by %s", holder)
		}
		return LockInfo{}, ErrLocked
	}
	return info, nil
}

// Unlock releases the lock taken as info. It does nothing if the lock was
// broken and taken over since.
func (s *Store) Unlock(ctx context.Context, info LockInfo) error {
	holder, held, err := s.LockHolder(ctx)
	if err != nil {
		return err
	}
	if !held || !holder.same(info) {
		return nil
	}
	return errors.Wrap(s.backend.Remove(ctx, KeyLock), "releasing lock")
}

// LockHolder reports who holds the lock, if anyone.
func (s *Store) LockHolder(ctx context.Context) (LockInfo, bool, error) {
	data, ok, err := s.backend.Get(ctx, KeyLock)
	if err != nil {
		return LockInfo{}, false, errors.Wrap(err, "reading lock")
	}
	if !ok {
		return LockInfo{}, false, nil
	}
	var info LockInfo
	if err := json.Unmarshal(data, &info); err != nil {
		// an unreadable lock is still a lock
		return LockInfo{Owner: "unknown"}, true, nil
	}
	return info, true, nil
}

// BreakLock removes the lock whoever holds it. Only meant for a lock left
// behind by a process that died.
func (s *Store) BreakLock(ctx context.Context) error {
	return errors.Wrap(s.backend.Remove(ctx, KeyLock), "breaking lock")
}
