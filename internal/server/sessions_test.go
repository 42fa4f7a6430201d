package server

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-eventform/pkg/form"
	"github.com/goliatone/go-eventform/pkg/registration"
)

func newForm() (*registration.Form, error) {
	return registration.New(), nil
}

func TestSessions_CreateAndGet(t *testing.T) {
	sessions := NewSessions(time.Minute, time.Minute, newForm)

	session, err := sessions.Create()
	require.NoError(t, err)
	require.NotEmpty(t, session.ID)

	got, ok := sessions.Get(session.ID)
	require.True(t, ok)
	require.Same(t, session, got)

	_, ok = sessions.Get("not-a-uuid")
	require.False(t, ok)

	sessions.Delete(session.ID)
	_, ok = sessions.Get(session.ID)
	require.False(t, ok)
}

func TestSessions_Expire(t *testing.T) {
	sessions := NewSessions(20*time.Millisecond, time.Hour, newForm)

	session, err := sessions.Create()
	require.NoError(t, err)
	time.Sleep(40 * time.Millisecond)

	_, ok := sessions.Get(session.ID)
	require.False(t, ok)
}

func TestSessions_FormFactoryError(t *testing.T) {
	boom := errors.New("boom")
	sessions := NewSessions(time.Minute, time.Minute, func() (*registration.Form, error) {
		return nil, boom
	})
	_, err := sessions.Create()
	require.ErrorIs(t, err, boom)
}

func TestSession_SerialisesChanges(t *testing.T) {
	sessions := NewSessions(time.Minute, time.Minute, newForm)
	session, err := sessions.Create()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f := session.Lock()
			defer session.Unlock()
			f.HandleChange(form.TextChange(registration.FieldName, "Jo"))
			f.HandleChange(form.TextChange(registration.FieldEmail, "jo@x.com"))
		}()
	}
	wg.Wait()

	f := session.Lock()
	defer session.Unlock()
	require.Equal(t, "Jo", f.Values().String(registration.FieldName))
	require.Equal(t, "jo@x.com", f.Values().String(registration.FieldEmail))
}
