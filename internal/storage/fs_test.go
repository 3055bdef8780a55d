package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSheetKeyPath(t *testing.T) {
	at := time.Unix(0, 42)
	assert.Equal(t, "bp1/section-2/42.csv", SheetKey{BlueprintID: "bp1", SectionIndex: 2, ReceivedAt: at}.Path())
	assert.Equal(t, "__etc_passwd/section-0/42.csv", SheetKey{BlueprintID: "../etc/passwd", ReceivedAt: at}.Path())
	assert.Equal(t, "_/section-0/42.csv", SheetKey{ReceivedAt: at}.Path())
}

func TestFSStorePutSheet(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFSStore(dir)
	require.NoError(t, err)

	key := SheetKey{BlueprintID: "bp1", SectionIndex: 1, ReceivedAt: time.Unix(1, 0)}
	ref, err := s.PutSheet(key, strings.NewReader("student_id\n"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "file://"), ref)

	got, err := os.ReadFile(filepath.Join(dir, "bp1", "section-1", "1000000000.csv"))
	require.NoError(t, err)
	assert.Equal(t, "student_id\n", string(got))
}
