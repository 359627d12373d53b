package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const dumpNameFormat = "060102-1504"

// dumpEntry persists the raw failing buffer (from the current walk offset to
// its end) and the entry header's textual form for offline analysis. It
// never fails past the caller: persistence problems are logged and
// swallowed.
func (s *Session) dumpEntry() {
	dir := s.r.cfg.DumpFolder
	if dir == "" {
		return
	}
	if s.offset < 0 || s.offset > len(s.data) {
		return
	}

	f, path := createDumpFile(s.r, dir)
	if f == nil {
		s.r.log.Error().Str("dir", dir).Msg("failed to create a dump file")
		return
	}

	dumped := s.data[s.offset:]
	_, werr := f.Write(dumped)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		s.r.log.Error().Err(werr).Str("file", path).Msg("failed to dump problematic data")
		return
	}

	info := fmt.Sprintf("%s\ndumped: %d\ntotal length: %d\n", s.entry, len(dumped), len(s.data))
	if err := os.WriteFile(path+".txt", []byte(info), 0o644); err != nil {
		s.r.log.Error().Err(err).Str("file", path+".txt").Msg("failed to write dump description")
	}
}

// createDumpFile tries up to 100 timestamp-plus-suffix names until one does
// not already exist.
func createDumpFile(r *Retriever, dir string) (*os.File, string) {
	stamp := time.Now().Format(dumpNameFormat)
	for i := 0; i < 100; i++ {
		path := filepath.Join(dir, fmt.Sprintf("%s-%d", stamp, i))
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, path
		}
		if !os.IsExist(err) {
			r.log.Error().Err(err).Str("file", path).Msg("unable to dump to file")
		}
	}
	return nil, ""
}
