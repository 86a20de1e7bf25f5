package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/arbikit/gmx-ccxt/common/config"
	"github.com/arbikit/gmx-ccxt/common/logging"
)

// Client is a thin JSON HTTP client bound to one base URL.
type Client struct {
	client  *http.Client
	logger  logging.Logger
	baseURL string
}

func assertHttpInterface() {
	var _ IHttpClient = (*Client)(nil)
}

type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

var DefaultTransport = &http.Transport{
	DialContext: (&net.Dialer{
		Timeout: 3 * time.Second,
	}).DialContext,
	TLSHandshakeTimeout: 3 * time.Second,
	MaxIdleConns:        100,
	IdleConnTimeout:     30 * time.Second,
}

func NewHttpClient(transport *http.Transport, logger logging.Logger, baseURL string) *Client {
	if transport == nil {
		transport = http.DefaultTransport.(*http.Transport)
	}
	timeout := time.Duration(config.GetInt64("HTTP_TIMEOUT_SECOND", 30)) * time.Second
	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		logger:  logger,
		baseURL: baseURL,
	}
}

const ErrorCode = -1

// Request issues a request to baseURL+path. The returned code is ErrorCode
// when no response was received at all.
func (h *Client) Request(method, path string, params []KeyValue, requestBody interface{}, headers []KeyValue) (err error, code int, respBody []byte) {
	code = ErrorCode
	respBody = []byte{}
	err = nil

	if len(h.baseURL) == 0 {
		err = fmt.Errorf("url is empty")
		h.logger.Error(err.Error())
		return
	}

	fullURL := h.baseURL + path
	_, err = url.Parse(fullURL)
	if err != nil {
		h.logger.Error("parse url %s failed, error: %v", fullURL, err)
		return
	}

	var buffer bytes.Buffer
	buffer.WriteString(fullURL)
	if len(params) > 0 && !strings.HasSuffix(fullURL, "?") {
		buffer.WriteString("?")
	}
	for i, param := range params {
		buffer.WriteString(url.QueryEscape(param.Key))
		buffer.WriteString("=")
		buffer.WriteString(url.QueryEscape(param.Value))
		if i < len(params)-1 {
			buffer.WriteString("&")
		}
	}

	var bodyBytes []byte
	if requestBody != nil {
		bodyBytes, err = json.Marshal(requestBody)
		if err != nil {
			h.logger.Error("build request error: %v", err.Error())
			return
		}
	}

	req, err := http.NewRequest(method, buffer.String(), bytes.NewBuffer(bodyBytes))
	if err != nil {
		h.logger.Error("build request error: %v", err.Error())
		return
	}

	req.Header.Set("Content-Type", "application/json")
	for _, header := range headers {
		req.Header.Set(header.Key, header.Value)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Error("http call error: %v", err.Error())
		return
	}

	bodyBytes, err = ioutil.ReadAll(resp.Body)
	defer closeBody(resp, h.logger)
	if err != nil {
		return
	}
	return nil, resp.StatusCode, bodyBytes
}

func (h *Client) Get(path string, params []KeyValue, body interface{}, header []KeyValue) (error, int, []byte) {
	return h.Request(http.MethodGet, path, params, body, header)
}

func (h *Client) Post(path string, params []KeyValue, body interface{}, header []KeyValue) (error, int, []byte) {
	return h.Request(http.MethodPost, path, params, body, header)
}

func (h *Client) Delete(path string, params []KeyValue, body interface{}, header []KeyValue) (error, int, []byte) {
	return h.Request(http.MethodDelete, path, params, body, header)
}

func (h *Client) Put(path string, params []KeyValue, body interface{}, header []KeyValue) (error, int, []byte) {
	return h.Request(http.MethodPut, path, params, body, header)
}

func closeBody(resp *http.Response, logger logging.Logger) {
	if resp != nil && resp.Body != nil {
		err := resp.Body.Close()
		if err != nil {
			logger.Error("response body close error: %v, req: %v", err.Error(), resp.Request)
		}
	}
}
