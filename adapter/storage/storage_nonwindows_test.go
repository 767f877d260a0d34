//go:build !windows

package storage

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// Cannot cause EMFILE errors by opening too many file descriptors
//
// Not run on Windows as there is no clean way to set maximum file
// descriptors. Not an issue as the code itself is tested.
func (s *StorageTestSuite) TestCannotCauseEMFILEErrorsByOpeningTooManyFileDescriptors() {
	ctx, cancel := context.WithTimeout(s.T().Context(), 5000*time.Millisecond)
	defer cancel()

	const N = 64

	var originalRLimit syscall.Rlimit
	s.NoError(syscall.Getrlimit(syscall.RLIMIT_NOFILE, &originalRLimit))

	rLimit := syscall.Rlimit{
		Cur: 128,
		Max: originalRLimit.Max,
	}
	s.NoError(syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit))
	defer func() {
		s.NoError(syscall.Setrlimit(syscall.RLIMIT_NOFILE, &originalRLimit))
	}()

	// the limit is actually enforced
	var filehandles []*os.File
	var err error
	for range N * 2 {
		var filehandle *os.File
		filehandle, err = os.OpenFile(filepath.Join(s.dir, "openFdsTestFile"), os.O_RDONLY|os.O_CREATE, 0o666)
		if err != nil {
			break
		}
		filehandles = append(filehandles, filehandle)
	}
	s.ErrorIs(err, syscall.EMFILE)
	for _, fh := range filehandles {
		fh.Close()
	}

	// every read and write releases its descriptors
	name := filepath.Join(s.dir, "openfds.db.json")
	s.NoError(s.storage.EnsureFile(name, 0o755, 0o644))
	for range N * 2 {
		if err = s.storage.WriteFile(ctx, name, []byte(testContent), 0o755, 0o644); err != nil {
			break
		}
		if _, err = s.storage.ReadFile(ctx, name); err != nil {
			break
		}
	}
	s.NoError(err)

	select {
	case <-ctx.Done():
		s.Fail(ctx.Err().Error())
	default:
	}
}
