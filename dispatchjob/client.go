package dispatchjob

import "net/rpc"

// Client is a thin wrapper around net/rpc's HTTP client, mirroring
// cloudlus.Client: every method is a direct RPC.* call, with no local
// state beyond the connection itself.
type Client struct {
	client *rpc.Client
}

// Dial connects to a Server's ListenAndServe address.
func Dial(addr string) (*Client, error) {
	client, err := rpc.DialHTTP("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Client{client: client}, nil
}

func (c *Client) Close() error { return c.client.Close() }

// Run submits j and blocks until the server reports it done.
func (c *Client) Run(j *DispatchJob) (*DispatchJob, error) {
	result := &DispatchJob{}
	if err := c.client.Call("RPC.Submit", j, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) Retrieve(id JobId) (*DispatchJob, error) {
	result := &DispatchJob{}
	if err := c.client.Call("RPC.Retrieve", id, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) Heartbeat(w WorkerId, j JobId) error {
	var unused int
	return c.client.Call("RPC.Heartbeat", NewBeat(w, j), &unused)
}

// Fetch pulls the next queued job for worker w, or errNoJobs if the queue is
// empty.
func (c *Client) Fetch(w WorkerId) (*DispatchJob, error) {
	j := &DispatchJob{}
	if err := c.client.Call("RPC.Fetch", w, &j); err != nil {
		return nil, err
	}
	return j, nil
}

// Push reports a finished (or failed) job back to the server.
func (c *Client) Push(j *DispatchJob) error {
	var unused int
	return c.client.Call("RPC.Push", j, &unused)
}
