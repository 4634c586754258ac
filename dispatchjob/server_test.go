package dispatchjob

import (
	"testing"
	"time"
)

const testaddr = "127.0.0.1:45691"

// TestServerWorkerClient exercises the full submit/fetch/execute/push loop
// over a real TCP listener, the same shape as the teacher's
// TestRemoteKill/TestWorkerFailure but against a dispatch solve instead of a
// cyclus run.
func TestServerWorkerClient(t *testing.T) {
	s := NewServer(&stubAdapter{}, 16)
	go s.ListenAndServe(testaddr)
	defer s.Close()
	waitForServer(t, testaddr)

	w := NewWorker(testaddr, &stubAdapter{})
	w.Wait = 50 * time.Millisecond
	w.MaxIdle = 2 * time.Second
	go w.Run()

	client, err := Dial(testaddr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()

	j := NewDispatchJob(smallPayload(t))
	done := make(chan *DispatchJob, 1)
	go func() {
		result, err := client.Run(j)
		if err != nil {
			t.Error(err)
			done <- nil
			return
		}
		done <- result
	}()

	select {
	case result := <-done:
		if result == nil {
			return
		}
		if result.Status != StatusComplete {
			t.Errorf("job status = %q, want %q (message: %s)", result.Status, StatusComplete, result.Message)
		}
		if result.Result == nil || result.Result.ObjValue != 42 {
			t.Errorf("unexpected result: %+v", result.Result)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for job to complete")
	}
}

func TestClientFetchNoJobs(t *testing.T) {
	const addr = "127.0.0.1:45692"
	s := NewServer(&stubAdapter{}, 16)
	go s.ListenAndServe(addr)
	defer s.Close()
	waitForServer(t, addr)

	client, err := Dial(addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()

	var wid WorkerId
	_, err = client.Fetch(wid)
	if !isNoJobsErr(err) {
		t.Fatalf("Fetch on an empty queue: got err %v, want a no-jobs error", err)
	}
}

// waitForServer polls addr until a client can successfully dial it, since
// ListenAndServe binds its listener asynchronously.
func waitForServer(t *testing.T, addr string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		c, err := Dial(addr)
		if err == nil {
			c.Close()
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("server at %s never came up", addr)
}
