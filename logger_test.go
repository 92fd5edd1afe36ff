package edgelike

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLineWriter(t *testing.T) {
	t.Run("appends exactly one newline", func(t *testing.T) {
		buf := new(bytes.Buffer)
		n, err := LineWriter{buf}.Write([]byte("hello"))
		require.NoError(t, err)
		require.Equal(t, 5, n)
		require.Equal(t, "hello\n", buf.String())
	})

	t.Run("strips trailing newlines", func(t *testing.T) {
		buf := new(bytes.Buffer)
		_, err := LineWriter{buf}.Write([]byte("hello\n\n\n"))
		require.NoError(t, err)
		require.Equal(t, "hello\n", buf.String())
	})

	t.Run("escapes interior newlines", func(t *testing.T) {
		buf := new(bytes.Buffer)
		_, err := LineWriter{buf}.Write([]byte("two\nlines"))
		require.NoError(t, err)
		require.Equal(t, "two\\nlines\n", buf.String())
	})
}

func TestPrefixWriter(t *testing.T) {
	buf := new(bytes.Buffer)
	w := NewPrefixWriter("default", buf)

	n, err := w.Write([]byte("a message"))
	require.NoError(t, err)
	require.Equal(t, 9, n)
	require.Equal(t, "default: a message", buf.String())
}

func TestEndpointWritesAreLineAtomic(t *testing.T) {
	buf := new(bytes.Buffer)
	opt := WithLogEndpoint("default", buf)

	var wg sync.WaitGroup
	for n := 0; n < 16; n++ {
		// a fresh instance per writer, sharing the one registration, as concurrent requests do
		i := newInstance(nil)
		opt(i)
		endpoint := i.getEndpoint("default")

		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := 0; k < 25; k++ {
				_, _ = endpoint.WriteString("the quick brown fox jumps over the lazy dog")
			}
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 16*25)
	for _, line := range lines {
		require.Equal(t, "the quick brown fox jumps over the lazy dog", line)
	}
}

func TestEndpointFailurePolicy(t *testing.T) {
	t.Run("fatal by default", func(t *testing.T) {
		i := newInstance(nil)
		WithLogEndpoint("default", failWriter{})(i)
		endpoint := i.getEndpoint("default")

		require.Panics(t, func() {
			_, _ = endpoint.WriteString("boom")
		})
	})

	t.Run("best effort swallows the failure", func(t *testing.T) {
		i := newInstance(nil)
		WithLogEndpoint("default", failWriter{})(i)
		WithBestEffortLogs()(i)
		endpoint := i.getEndpoint("default")

		require.NotPanics(t, func() {
			_, err := endpoint.WriteString("boom")
			require.Error(t, err)
		})
	})
}

func TestReservedEndpointNames(t *testing.T) {
	for _, name := range []string{"stdout", "stderr", "stdin"} {
		require.True(t, endpointNameReserved(name))
	}
	require.False(t, endpointNameReserved("default"))
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) {
	return 0, errFailWriter
}

var errFailWriter = errors.New("sink is broken")
