package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const testAnswerSheet = `public_name,r1,r2,SPECIES,ST
GP-001,GP-001_R1.fastq.gz,GP-001_R2.fastq.gz,Salmonella enterica,19
GP-002,GP-002_R1.fastq.gz,GP-002_R2.fastq.gz,Escherichia coli,131
GP-003,GP-003_R1.fastq.gz,GP-003_R2.fastq.gz,Salmonella enterica,34
`

const testSampleSheet = `public_name,r1,r2
GP-001,GP-001_R1.fastq.gz,GP-001_R2.fastq.gz
GP-002,GP-002_R1.fastq.gz,GP-002_R2.fastq.gz
GP-003,GP-003_R1.fastq.gz,GP-003_R2.fastq.gz
`

// writeDataset lays out a dataset directory with both sheets and empty reads.
func writeDataset(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"run42_answer_sheet.csv": testAnswerSheet,
		"run42_sample_sheet.csv": testSampleSheet,
	}
	for _, id := range []string{"GP-001", "GP-002", "GP-003"} {
		files[id+"_R1.fastq.gz"] = "@" + id + "/1\n"
		files[id+"_R2.fastq.gz"] = "@" + id + "/2\n"
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

// memStore is an in-memory Store.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	heads   int
	failKey string
}

func newMemStore(existing ...string) *memStore {
	s := &memStore{objects: make(map[string][]byte)}
	for _, k := range existing {
		s.objects[k] = nil
	}
	return s
}

func (s *memStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heads++
	_, ok := s.objects[key]
	return ok, nil
}

func (s *memStore) Upload(_ context.Context, key, path string) error {
	if key == s.failKey {
		return errors.New("boom")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *memStore) keys() map[string][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]byte, len(s.objects))
	for k, v := range s.objects {
		out[k] = v
	}
	return out
}
