package resthttp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

var runOnce sync.Once
var restyClient *resty.Client

// Client shared resty client
func Client() *resty.Client {
	runOnce.Do(func() {
		restyClient = resty.New().
			SetHeader("Content-Type", "application/json").
			SetHeader("Charset", "utf-8").
			SetTimeout(10 * time.Second)
	})

	return restyClient
}

// Request new resty request bound to ctx
func Request(ctx context.Context) *resty.Request {
	return Client().R().SetContext(ctx)
}

// Execute do network request
func Execute(request *resty.Request, method, url string, body interface{}, resp interface{}) (int, error) {
	if body != nil {
		request = request.SetBody(body)
	}

	if resp != nil {
		request = request.SetResult(resp)
	}

	r, err := request.Execute(strings.ToUpper(method), url)
	if err != nil {
		return 0, err
	}

	if r.IsError() {
		return r.StatusCode(), fmt.Errorf("request %s %s failed: %s", method, url, r.Status())
	}

	return r.StatusCode(), nil
}

// ParseResponse parse response body into obj
func ParseResponse(r *resty.Response, obj interface{}) error {
	if !r.IsSuccess() {
		return fmt.Errorf("request failed: %s", r.Status())
	}

	if obj == nil {
		return nil
	}

	return json.Unmarshal(r.Body(), obj)
}
