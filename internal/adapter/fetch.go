package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"StreamSync/internal/model"
)

// maxErrorBody 非 2xx 时读入错误信息的上限
const maxErrorBody = 512

// Get 发起带 context 的 GET，返回 2xx 响应体；失败按 transport/status/canceled 分类
func Get(ctx context.Context, client *http.Client, source, rawURL string, header http.Header) (io.ReadCloser, error) {
	safeURL := RedactURL(rawURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, model.NewSourceError(source, model.FailureTransport, safeURL, fmt.Errorf("new request: %w", err))
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := client.Do(req)
	if err != nil {
		kind := model.FailureTransport
		if ctx.Err() != nil {
			kind = model.FailureCanceled
		}
		// url.Error 会带上完整地址（含密钥），只保留内部错误
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, model.NewSourceError(source, kind, safeURL, fmt.Errorf("do request: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		return nil, model.NewSourceError(source, model.FailureStatus, safeURL, fmt.Errorf("status %d: %s", resp.StatusCode, snippet))
	}
	return resp.Body, nil
}

// GetJSON GET 并解码 JSON 到 out
func GetJSON(ctx context.Context, client *http.Client, source, rawURL string, out interface{}) error {
	body, err := Get(ctx, client, source, rawURL, http.Header{"Accept": []string{"application/json"}})
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(out); err != nil {
		kind := model.FailureParse
		if ctx.Err() != nil {
			kind = model.FailureCanceled
		}
		return model.NewSourceError(source, kind, RedactURL(rawURL), fmt.Errorf("decode: %w", err))
	}
	return nil
}

// RedactURL 去掉查询串中的密钥参数，用于日志与诊断
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.RawQuery == "" {
		return rawURL
	}
	q := u.Query()
	changed := false
	for k := range q {
		if strings.Contains(strings.ToLower(k), "key") {
			q.Set(k, "REDACTED")
			changed = true
		}
	}
	if !changed {
		return rawURL
	}
	u.RawQuery = q.Encode()
	return u.String()
}
