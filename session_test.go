package lyskom

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petli/node-lyskom-client/internal/testutils"
	"github.com/petli/node-lyskom-client/schema"
)

func mustOpenTestSession(t *testing.T) (*Session, *testutils.ConnectionMock) {
	t.Helper()
	mock := testutils.NewConnectionMock()
	cfg := Config{Logger: slog.Default(), User: "tester", Host: "testhost"}

	sessCh := make(chan *Session, 1)
	errCh := make(chan error, 1)
	go func() {
		s, err := newSession(context.Background(), mock, cfg)
		if err != nil {
			errCh <- err
			return
		}
		sessCh <- s
	}()
	mock.Feed("LysKOM\n")

	select {
	case s := <-sessCh:
		return s, mock
	case err := <-errCh:
		t.Fatalf("newSession failed: %v", err)
	case <-time.After(time.Second):
		t.Fatal("timeout opening session")
	}
	return nil, nil
}

func timeReplyFrame(refNo uint32) string {
	return "=" + strconv.FormatUint(uint64(refNo), 10) + " 0 0 0 1 1 2024 1 1 0\n"
}

func TestNewSessionHandshake(t *testing.T) {
	mock := testutils.NewConnectionMock()
	cfg := Config{Logger: slog.Default(), User: "tester", Host: "testhost"}

	sessCh := make(chan *Session, 1)
	errCh := make(chan error, 1)
	go func() {
		s, err := newSession(context.Background(), mock, cfg)
		if err != nil {
			errCh <- err
			return
		}
		sessCh <- s
	}()
	mock.Feed("LysKOM\n")

	select {
	case s := <-sessCh:
		assert.Equal(t, StateOpen, s.State())
		assert.Equal(t, "A15Htester%testhost\n", mock.GetWrittenRequest())
		s.Close()
	case err := <-errCh:
		t.Fatalf("newSession failed: %v", err)
	case <-time.After(time.Second):
		t.Fatal("timeout")
	}
}

func TestNewSessionFailsOnMalformedHandshake(t *testing.T) {
	mock := testutils.NewConnectionMock()
	cfg := Config{Logger: slog.Default(), User: "tester", Host: "testhost"}

	errCh := make(chan error, 1)
	go func() {
		_, err := newSession(context.Background(), mock, cfg)
		errCh <- err
	}()
	mock.Feed("NopeNope\n")

	select {
	case err := <-errCh:
		require.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for handshake failure")
	}
}

func TestSessionLogoutRoundTrip(t *testing.T) {
	sess, mock := mustOpenTestSession(t)
	defer sess.Close()

	resCh := make(chan callResult, 1)
	go func() {
		v, err := sess.Call(context.Background(), "logout", nil)
		resCh <- callResult{value: v, err: err}
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(mock.GetWrittenRequest(), "0 1\n")
	}, time.Second, time.Millisecond)

	mock.Feed("=0\n")

	select {
	case res := <-resCh:
		require.NoError(t, res.err)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for logout reply")
	}
}

func TestSessionLoginRoundTrip(t *testing.T) {
	sess, mock := mustOpenTestSession(t)
	defer sess.Close()

	resCh := make(chan error, 1)
	go func() {
		resCh <- sess.Login(context.Background(), 123, "hunter2", false)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(mock.GetWrittenRequest(), "0 62 123 7Hhunter2 0\n")
	}, time.Second, time.Millisecond)

	mock.Feed("=0\n")

	select {
	case err := <-resCh:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for login reply")
	}
}

func TestSessionAcceptAsyncFormatsArray(t *testing.T) {
	sess, mock := mustOpenTestSession(t)
	defer sess.Close()

	resCh := make(chan error, 1)
	go func() {
		resCh <- sess.AcceptAsync(context.Background(), []int32{10, 20})
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(mock.GetWrittenRequest(), "0 80 2 { 10 20 }\n")
	}, time.Second, time.Millisecond)

	mock.Feed("=0\n")

	select {
	case err := <-resCh:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for accept-async reply")
	}
}

func TestSessionRequestErrorReply(t *testing.T) {
	sess, mock := mustOpenTestSession(t)
	defer sess.Close()

	resCh := make(chan error, 1)
	go func() {
		resCh <- sess.Login(context.Background(), 123, "wrong", false)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(mock.GetWrittenRequest(), "0 62")
	}, time.Second, time.Millisecond)

	mock.Feed("%0 4 0\n")

	select {
	case err := <-resCh:
		require.Error(t, err)
		reqErr, ok := err.(*RequestError)
		require.True(t, ok, "expected *RequestError, got %T", err)
		assert.Equal(t, int32(4), reqErr.ErrorCode)
		assert.Equal(t, "invalid-password", reqErr.ErrorName)
		assert.False(t, ShouldCloseConnection(err))
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for error reply")
	}
}

func TestSessionDispatchesAsyncSendMessage(t *testing.T) {
	sess, mock := mustOpenTestSession(t)
	defer sess.Close()

	type received struct {
		recipient int32
		sender    int32
		message   string
	}
	gotCh := make(chan received, 1)
	sess.On("send-message", func(value any) {
		rec := value.(*schema.Record)
		recipient, _ := rec.Get("recipient")
		sender, _ := rec.Get("sender")
		message, _ := rec.Get("message")
		gotCh <- received{
			recipient: recipient.(int32),
			sender:    sender.(int32),
			message:   string(message.([]byte)),
		}
	})

	mock.Feed(":3 12 0 42 5Hhello\n")

	select {
	case got := <-gotCh:
		assert.Equal(t, int32(0), got.recipient)
		assert.Equal(t, int32(42), got.sender)
		assert.Equal(t, "hello", got.message)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for async dispatch")
	}
}

func TestSessionSkipsUnknownAsyncMessage(t *testing.T) {
	sess, mock := mustOpenTestSession(t)
	defer sess.Close()

	gotCh := make(chan struct{}, 1)
	sess.On("send-message", func(value any) { gotCh <- struct{}{} })

	// Unknown async number 9999, k=2 params to skip (an int and a
	// string), followed by a real send-message frame that must still
	// dispatch correctly afterwards.
	mock.Feed(":2 9999 7 3Hfoo:3 12 0 42 5Hhello\n")

	select {
	case <-gotCh:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for dispatch after skipping unknown async")
	}
}

func TestSessionRefNoIsSequentialAcrossPipelinedCalls(t *testing.T) {
	sess, mock := mustOpenTestSession(t)
	defer sess.Close()

	res1 := make(chan callResult, 1)
	res2 := make(chan callResult, 1)
	go func() {
		v, err := sess.Call(context.Background(), "get-time", nil)
		res1 <- callResult{value: v, err: err}
	}()
	require.Eventually(t, func() bool {
		return strings.Contains(mock.GetWrittenRequest(), "0 35")
	}, time.Second, time.Millisecond)

	go func() {
		v, err := sess.Call(context.Background(), "get-time", nil)
		res2 <- callResult{value: v, err: err}
	}()
	require.Eventually(t, func() bool {
		return strings.Contains(mock.GetWrittenRequest(), "1 35")
	}, time.Second, time.Millisecond)

	mock.Feed(timeReplyFrame(0))
	mock.Feed(timeReplyFrame(1))

	select {
	case res := <-res1:
		require.NoError(t, res.err)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for first get-time reply")
	}
	select {
	case res := <-res2:
		require.NoError(t, res.err)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for second get-time reply")
	}
}

func TestSessionUnknownRPCNameFailsLocally(t *testing.T) {
	sess, _ := mustOpenTestSession(t)
	defer sess.Close()

	_, err := sess.Call(context.Background(), "no-such-rpc", nil)
	require.Error(t, err)
	assert.Equal(t, ErrUnknownRPC, err)
}

func TestSessionMaxInFlightRejectsExcessCalls(t *testing.T) {
	mock := testutils.NewConnectionMock()
	cfg := Config{Logger: slog.Default(), User: "tester", Host: "testhost", MaxInFlight: 1}

	sessCh := make(chan *Session, 1)
	go func() {
		s, err := newSession(context.Background(), mock, cfg)
		require.NoError(t, err)
		sessCh <- s
	}()
	mock.Feed("LysKOM\n")
	sess := <-sessCh
	defer sess.Close()

	res1 := make(chan callResult, 1)
	go func() {
		v, err := sess.Call(context.Background(), "get-time", nil)
		res1 <- callResult{value: v, err: err}
	}()
	require.Eventually(t, func() bool {
		return strings.Contains(mock.GetWrittenRequest(), "0 35")
	}, time.Second, time.Millisecond)

	_, err := sess.Call(context.Background(), "get-time", nil)
	require.Error(t, err)
	assert.Equal(t, ErrTooManyInFlight, err)

	mock.Feed(timeReplyFrame(0))
	<-res1
}

func TestSessionProtocolErrorTearsDownPendingCalls(t *testing.T) {
	sess, mock := mustOpenTestSession(t)

	resCh := make(chan callResult, 1)
	go func() {
		v, err := sess.Call(context.Background(), "get-time", nil)
		resCh <- callResult{value: v, err: err}
	}()
	require.Eventually(t, func() bool {
		return strings.Contains(mock.GetWrittenRequest(), "0 35")
	}, time.Second, time.Millisecond)

	mock.Feed("@garbage\n")

	select {
	case res := <-resCh:
		require.Error(t, res.err)
		assert.True(t, ShouldCloseConnection(res.err))
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for teardown")
	}

	require.Eventually(t, func() bool {
		return sess.State() == StateClosed
	}, time.Second, time.Millisecond)
}

func TestSessionUnknownReplyRefNoIsFatal(t *testing.T) {
	sess, mock := mustOpenTestSession(t)

	resCh := make(chan callResult, 1)
	go func() {
		v, err := sess.Call(context.Background(), "get-time", nil)
		resCh <- callResult{value: v, err: err}
	}()
	require.Eventually(t, func() bool {
		return strings.Contains(mock.GetWrittenRequest(), "0 35")
	}, time.Second, time.Millisecond)

	// refNo 99 was never issued: the dispatcher cannot know the response
	// schema and must tear the session down.
	mock.Feed("=99\n")

	select {
	case res := <-resCh:
		require.Error(t, res.err)
		assert.True(t, ShouldCloseConnection(res.err))
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for fatal teardown")
	}
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	sess, _ := mustOpenTestSession(t)
	require.NoError(t, sess.Close())
	require.NoError(t, sess.Close())
	assert.Equal(t, StateClosed, sess.State())
}

func TestSessionCloseFailsPendingCalls(t *testing.T) {
	sess, mock := mustOpenTestSession(t)

	resCh := make(chan callResult, 1)
	go func() {
		v, err := sess.Call(context.Background(), "get-time", nil)
		resCh <- callResult{value: v, err: err}
	}()
	require.Eventually(t, func() bool {
		return strings.Contains(mock.GetWrittenRequest(), "0 35")
	}, time.Second, time.Millisecond)

	require.NoError(t, sess.Close())

	select {
	case res := <-resCh:
		require.Error(t, res.err)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for Close to fail pending call")
	}
}
