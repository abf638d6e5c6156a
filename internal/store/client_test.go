package store

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestPanicMarksClientCrashed(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	err := c.run(ctx, "Todo", "findMany", func(*gorm.DB) error {
		panic("engine exploded")
	})
	var crashed *PanicError
	require.ErrorAs(t, err, &crashed)
	assert.Equal(t, "engine exploded", crashed.Message)
	assert.Equal(t, "Todo", crashed.Model)

	_, err = c.Todo.FindMany(ctx, TodoFindManyArgs{})
	var again *PanicError
	require.ErrorAs(t, err, &again)
	assert.Same(t, crashed, again)

	_, err = c.Settings.FindUnique(ctx, SettingsFindUniqueArgs{Where: SettingsWhereUniqueInput{ID: Ptr(DefaultSettingsID)}})
	require.ErrorAs(t, err, &again)
	assert.Same(t, crashed, again)

	err = c.Transaction(ctx, func(*Client) error { return nil })
	require.ErrorAs(t, err, &again)
	assert.Same(t, crashed, again)

	fresh := newTestClient(t)
	_, err = fresh.Todo.FindMany(ctx, TodoFindManyArgs{})
	require.NoError(t, err)
}

// holdConnection keeps the single SQLite connection busy inside a
// transaction until the returned release func is called.
func holdConnection(t *testing.T, c *Client) (release func()) {
	t.Helper()
	started := make(chan struct{})
	done := make(chan struct{})
	txErr := make(chan error, 1)
	go func() {
		txErr <- c.Transaction(context.Background(), func(tx *Client) error {
			if _, err := tx.Todo.Count(context.Background(), TodoCountArgs{}); err != nil {
				return err
			}
			close(started)
			<-done
			return nil
		})
	}()
	select {
	case <-started:
	case err := <-txErr:
		require.NoError(t, err)
		t.Fatal("transaction ended before holding the connection")
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			require.NoError(t, <-txErr)
		})
	}
}

func TestFindUniqueSharesConcurrentQueries(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, func(o *ClientOptions) {
		o.Log = []LogDefinition{{Level: LogQuery, Emit: EmitEvent}}
	})
	_, err := c.Settings.Create(ctx, SettingsCreateArgs{Data: SettingsCreateInput{}})
	require.NoError(t, err)

	var selects atomic.Int32
	c.On(LogQuery, func(ev LogEvent) {
		if strings.HasPrefix(ev.Query, "SELECT") && strings.Contains(ev.Query, "Settings") {
			selects.Add(1)
		}
	})

	release := holdConnection(t, c)
	args := SettingsFindUniqueArgs{Where: SettingsWhereUniqueInput{ID: Ptr(DefaultSettingsID)}}
	const callers = 8
	results := make([]*Settings, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = c.Settings.FindUnique(ctx, args)
		}()
	}
	time.Sleep(200 * time.Millisecond)
	release()
	wg.Wait()

	for i := range callers {
		require.NoError(t, errs[i])
		require.NotNil(t, results[i])
		assert.Equal(t, "system", results[i].Theme)
	}
	assert.Equal(t, int32(1), selects.Load())

	results[0].Theme = "dark"
	assert.Equal(t, "system", results[1].Theme)
}

func TestFindUniqueIgnoresOtherCallersCancellation(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	_, err := c.Settings.Create(ctx, SettingsCreateArgs{Data: SettingsCreateInput{}})
	require.NoError(t, err)

	release := holdConnection(t, c)
	defer release()
	args := SettingsFindUniqueArgs{Where: SettingsWhereUniqueInput{ID: Ptr(DefaultSettingsID)}}

	first, cancelFirst := context.WithCancel(ctx)
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Settings.FindUnique(first, args)
		firstErr <- err
	}()
	time.Sleep(50 * time.Millisecond)

	type result struct {
		rec *Settings
		err error
	}
	second := make(chan result, 1)
	go func() {
		rec, err := c.Settings.FindUnique(ctx, args)
		second <- result{rec, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	release()
	got := <-second
	require.NoError(t, got.err)
	require.NotNil(t, got.rec)
	assert.Equal(t, DefaultSettingsID, got.rec.ID)
}

func TestCloneRecord(t *testing.T) {
	branch := "main"
	pc := &ProjectContext{ID: "pc", GitBranch: &branch, Files: datatypes.JSON(`["a.go"]`)}

	cp := cloneRecord(pc)
	*cp.GitBranch = "dev"
	cp.Files[2] = 'b'

	assert.Equal(t, "main", *pc.GitBranch)
	assert.Equal(t, `["a.go"]`, string(pc.Files))
	assert.Equal(t, "pc", cp.ID)
}
