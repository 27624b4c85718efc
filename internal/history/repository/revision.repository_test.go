package repository

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ringkasan/internal/history/model"
)

var base = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func rev(doc string, i int) model.Revision {
	return model.Revision{
		ID:         fmt.Sprintf("v%d", i),
		DocumentID: doc,
		Content:    fmt.Sprintf("content %d", i),
		Timestamp:  base.Add(time.Duration(i) * time.Second),
	}
}

func TestAppendEvictsOldestBeyondCap(t *testing.T) {
	repo := NewRevisionRepository(3)

	evicted := 0
	for i := 1; i <= 5; i++ {
		_, n := repo.Append(rev("doc", i))
		evicted += n
	}

	log := repo.List("doc")
	require.Len(t, log, 3)
	assert.Equal(t, 2, evicted)
	assert.Equal(t, []string{"v3", "v4", "v5"}, []string{log[0].ID, log[1].ID, log[2].ID})
}

func TestZeroCapKeepsNewest(t *testing.T) {
	for _, retention := range []int{0, -5} {
		repo := NewRevisionRepository(retention)
		repo.Append(rev("doc", 1))
		repo.Append(rev("doc", 2))

		latest, ok := repo.Latest("doc")
		require.True(t, ok)
		assert.Equal(t, "v2", latest.ID)
		assert.Equal(t, 1, repo.Count("doc"))
	}
}

func TestAppendKeepsTimestampsIncreasing(t *testing.T) {
	repo := NewRevisionRepository(10)

	first := rev("doc", 1)
	second := rev("doc", 2)
	second.Timestamp = first.Timestamp

	repo.Append(first)
	stored, _ := repo.Append(second)

	assert.True(t, stored.Timestamp.After(first.Timestamp))
	assert.Equal(t, first.Timestamp.Add(time.Nanosecond), stored.Timestamp)
}

func TestStoredRevisionsCannotBeMutated(t *testing.T) {
	repo := NewRevisionRepository(10)

	in := rev("doc", 1)
	in.Extra = map[string]any{"k": "v"}
	stored, _ := repo.Append(in)

	in.Extra["k"] = "changed"
	stored.Extra["k"] = "changed"
	listed := repo.List("doc")
	listed[0].Extra["k"] = "changed"
	listed[0].Content = "changed"

	got, ok := repo.Find("doc", "v1")
	require.True(t, ok)
	assert.Equal(t, "v", got.Extra["k"])
	assert.Equal(t, "content 1", got.Content)
}

func TestNestedExtraIsNotShared(t *testing.T) {
	repo := NewRevisionRepository(10)

	nested := map[string]any{"k": "before"}
	list := []any{"first", map[string]any{"deep": "x"}}
	in := rev("doc", 1)
	in.Extra = map[string]any{"n": nested, "l": list}
	repo.Append(in)

	nested["k"] = "after"
	list[0] = "mutated"
	list[1].(map[string]any)["deep"] = "mutated"

	got, ok := repo.Find("doc", "v1")
	require.True(t, ok)
	got.Extra["n"].(map[string]any)["k"] = "changed by reader"
	got.Extra["l"].([]any)[0] = "changed by reader"

	again, ok := repo.Find("doc", "v1")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"k": "before"}, again.Extra["n"])
	assert.Equal(t, []any{"first", map[string]any{"deep": "x"}}, again.Extra["l"])
}

func TestAppendAssignsIDsInInsertionOrder(t *testing.T) {
	repo := NewRevisionRepository(1000)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				repo.Append(model.Revision{DocumentID: "doc", Content: "c", Timestamp: base})
			}
		}()
	}
	wg.Wait()

	log := repo.List("doc")
	require.Len(t, log, 320)
	for i := 1; i < len(log); i++ {
		require.NotEmpty(t, log[i].ID)
		assert.Less(t, log[i-1].ID, log[i].ID, "position %d", i)
	}
}

func TestFindAndLatestOnUnknownDocument(t *testing.T) {
	repo := NewRevisionRepository(10)

	_, ok := repo.Find("missing", "v1")
	assert.False(t, ok)
	_, ok = repo.Latest("missing")
	assert.False(t, ok)
	assert.Empty(t, repo.List("missing"))
}

func TestTruncate(t *testing.T) {
	repo := NewRevisionRepository(50)
	for i := 1; i <= 6; i++ {
		repo.Append(rev("doc", i))
	}

	assert.Equal(t, 0, repo.Truncate("doc", 10))
	assert.Equal(t, 4, repo.Truncate("doc", 2))

	log := repo.List("doc")
	require.Len(t, log, 2)
	assert.Equal(t, "v5", log[0].ID)
	assert.Equal(t, "v6", log[1].ID)

	assert.Equal(t, 1, repo.Truncate("doc", 0))
	assert.Equal(t, 1, repo.Count("doc"))
}

func TestConcurrentAppendsRespectCap(t *testing.T) {
	repo := NewRevisionRepository(20)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				r := rev("doc", w*100+i)
				r.Timestamp = base
				repo.Append(r)
			}
		}(w)
	}
	wg.Wait()

	log := repo.List("doc")
	require.Len(t, log, 20)
	for i := 1; i < len(log); i++ {
		assert.True(t, log[i].Timestamp.After(log[i-1].Timestamp))
	}
}
