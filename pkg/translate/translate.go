package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"sparksound/pkg/lang"
	"sparksound/pkg/logger"
)

// 翻译结果状态
const (
	StatusTranslated = "translated" // 翻译成功
	StatusUnchanged  = "unchanged"  // 源语言与目标语言相同，无需翻译
	StatusFailed     = "failed"     // 翻译失败，已回退为原文
)

// Result 单条文本的翻译结果
// Text始终非空：翻译成功时为译文，失败或无需翻译时为原文
type Result struct {
	Text     string `json:"text"`
	Original string `json:"original"`
	Status   string `json:"status"`
}

// Translated 译文是否存在且不同于原文
func (r Result) Translated() bool {
	return r.Status == StatusTranslated && r.Text != r.Original
}

// Client 翻译网关客户端
type Client struct {
	APIServer  string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient 创建翻译网关客户端
func NewClient(apiServer string, timeout time.Duration, logger *logger.Logger) *Client {
	return &Client{
		APIServer:  apiServer,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// myMemoryResponse 翻译API响应
type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
}

// Translate 将文本从源语言翻译为目标语言
// 两个语言标签折叠为同一基础语言时直接返回原文，不发起网络请求
// 任何失败（超时、错误响应、响应格式异常）都回退为原文并记录警告，绝不向上抛出
func (c *Client) Translate(ctx context.Context, text, sourceLang, targetLang string) Result {
	if text == "" {
		return Result{Text: text, Original: text, Status: StatusUnchanged}
	}

	sourceCode := lang.BaseCode(sourceLang)
	targetCode := lang.BaseCode(targetLang)
	if sourceCode == targetCode {
		return Result{Text: text, Original: text, Status: StatusUnchanged}
	}

	translated, err := c.request(ctx, text, sourceCode, targetCode)
	if err != nil {
		c.logger.Warn("翻译失败，回退为原文",
			"source", sourceCode, "target", targetCode, "error", err)
		return Result{Text: text, Original: text, Status: StatusFailed}
	}

	return Result{Text: translated, Original: text, Status: StatusTranslated}
}

// TranslateAll 并发翻译一批文本，等待全部完成后按原顺序返回
// 单条失败只降级该条，不影响整批
func (c *Client) TranslateAll(ctx context.Context, texts []string, sourceLang, targetLang string) []Result {
	results := make([]Result, len(texts))

	var wg sync.WaitGroup
	for i, text := range texts {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			results[i] = c.Translate(ctx, text, sourceLang, targetLang)
		}(i, text)
	}
	wg.Wait()

	return results
}

// request 发起一次翻译请求
func (c *Client) request(ctx context.Context, text, sourceCode, targetCode string) (string, error) {
	// 构建请求URL
	params := url.Values{}
	params.Set("q", text)
	params.Set("langpair", fmt.Sprintf("%s|%s", sourceCode, targetCode))
	apiURL := fmt.Sprintf("%s/get?%s", c.APIServer, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "SparkSound/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("翻译API返回状态码 %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var result myMemoryResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("解析翻译响应失败: %w", err)
	}

	if result.ResponseData.TranslatedText == "" {
		return "", errors.New("翻译响应中没有译文")
	}

	return result.ResponseData.TranslatedText, nil
}
