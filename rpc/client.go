// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/bitmark-inc/logger"
	cache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/forkgenesis/fault"
	"github.com/bitmark-inc/forkgenesis/rpc/ratelimit"
)

const (
	jsonRPCVersion    = "2.0"
	contentType       = "application/json"
	defaultTimeout    = 120 * time.Second
	defaultRetryDelay = time.Second

	hashExpiration = 10 * time.Minute
	hashCleanup    = time.Minute
)

// Configuration - client settings
type Configuration struct {
	Endpoint   string
	Timeout    time.Duration // per request, zero selects the default
	RateLimit  float64       // requests per second, zero is unlimited
	RateBurst  int
	Retries    int
	RetryDelay time.Duration // multiplied by the attempt number
}

// Client - a JSON-RPC connection to one node
type Client struct {
	log        *logger.L
	endpoint   string
	client     *http.Client
	limiter    *rate.Limiter
	retries    int
	retryDelay time.Duration
	hashes     *cache.Cache // block hashes by decimal height
	id         uint64
}

type request struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *Error          `json:"error"`
}

// New - create a client for an http(s) endpoint
func New(configuration Configuration, log *logger.L) (*Client, error) {
	u, err := url.Parse(configuration.Endpoint)
	if nil != err || "" == u.Host || ("http" != u.Scheme && "https" != u.Scheme) {
		return nil, errors.Wrapf(fault.ErrInvalidEndpoint, "endpoint: %q", configuration.Endpoint)
	}

	timeout := configuration.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	retryDelay := configuration.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}

	retries := configuration.Retries
	if retries < 0 {
		retries = 0
	}

	return &Client{
		log:      log,
		endpoint: u.String(),
		client: &http.Client{
			Timeout: timeout,
		},
		limiter:    ratelimit.New(configuration.RateLimit, configuration.RateBurst),
		retries:    retries,
		retryDelay: retryDelay,
		hashes:     cache.New(hashExpiration, hashCleanup),
	}, nil
}

// Endpoint - the node URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Call - invoke method and decode its result into reply
//
// transport failures are retried, a node error is returned at once
func (c *Client) Call(ctx context.Context, method string, reply interface{}, params ...interface{}) error {
	if nil == params {
		params = []interface{}{}
	}

	id := atomic.AddUint64(&c.id, 1)
	body, err := json.Marshal(request{
		JSONRPC: jsonRPCVersion,
		ID:      id,
		Method:  method,
		Params:  params,
	})
	if nil != err {
		return err
	}

	attempt := 0
retry_loop:
	for {
		err = ratelimit.Limit(ctx, c.limiter)
		if nil != err {
			return err
		}

		c.log.Debugf("call: id: %d  method: %s  params: %v", id, method, params)

		var result json.RawMessage
		result, err = c.post(ctx, body)
		if nil == err {
			if nil == reply {
				return nil
			}
			return json.Unmarshal(result, reply)
		}

		if _, ok := err.(*Error); ok {
			break retry_loop
		}
		if nil != ctx.Err() || attempt >= c.retries {
			break retry_loop
		}

		attempt += 1
		c.log.Warnf("call: %s  attempt: %d  error: %s", method, attempt, err)

		t := time.NewTimer(time.Duration(attempt) * c.retryDelay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}

	c.log.Errorf("call: %s  error: %s", method, err)
	return err
}

// one HTTP round trip, returning the raw result
func (c *Client) post(ctx context.Context, body []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if nil != err {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentType)

	resp, err := c.client.Do(req)
	if nil != err {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if nil != err {
		return nil, err
	}

	var r response
	jsonErr := json.Unmarshal(data, &r)

	// nodes report some failures with a non 200 status and an error body
	if nil == jsonErr && nil != r.Error {
		return nil, r.Error
	}
	if http.StatusOK != resp.StatusCode {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	if nil != jsonErr {
		return nil, errors.Wrap(fault.ErrEmptyResponse, jsonErr.Error())
	}
	if 0 == len(r.Result) {
		return nil, fault.ErrEmptyResponse
	}
	return r.Result, nil
}
