package extractor

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"WebMind/internal/modules/rag/domain/rag"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultFetchTimeout = 30 * time.Second
	maxRedirects        = 10
	maxBodyBytes        = 10 << 20
	minContentChars     = 100

	userAgent = "WebMindBot/1.0 (+https://github.com/Aurorakid0x/WebMind)"
)

// PageContent 抽取结果：标题 + 压缩空白后的正文
type PageContent struct {
	Title string
	Text  string
}

// HTMLExtractor 抓取网页并抽取正文文本
//
// 失败路径全部映射为带类别的领域错误：
// - 网络/超时/非 2xx           → fetch_error
// - 非 text/html Content-Type  → unsupported_content
// - 正文过短（< 100 字符）     → extraction_error
type HTMLExtractor struct {
	client *http.Client
}

func NewHTMLExtractor(timeout time.Duration) *HTMLExtractor {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &HTMLExtractor{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
	}
}

func (e *HTMLExtractor) Extract(ctx context.Context, url string) (*PageContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, rag.WrapError(rag.ErrKindFetch, "build request failed", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, rag.WrapError(rag.ErrKindFetch, "fetch url failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, rag.NewErrorf(rag.ErrKindFetch, "unexpected status %d", resp.StatusCode)
	}

	// Content-Type 缺失同样视为不支持，不做嗅探
	contentType := resp.Header.Get("Content-Type")
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType != "text/html" && mediaType != "application/xhtml+xml" {
		return nil, rag.NewErrorf(rag.ErrKindUnsupportedContent, "unsupported content type: %q", contentType)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, rag.WrapError(rag.ErrKindExtraction, "parse html failed", err)
	}

	// 去掉无正文价值的结构节点再取文本
	doc.Find("script, style, noscript, nav, footer, header, aside").Remove()

	text := collapseWhitespace(doc.Find("body").Text())
	if text == "" {
		text = collapseWhitespace(doc.Text())
	}
	if len(text) < minContentChars {
		return nil, rag.NewErrorf(rag.ErrKindExtraction, "insufficient content: %d chars", len(text))
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = url
	}

	return &PageContent{Title: title, Text: text}, nil
}

// collapseWhitespace 把任意连续空白压成单个空格
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
