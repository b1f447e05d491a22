package extraction

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"recipe-costing/internal/infrastructure/config"
	"recipe-costing/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// Result 萃取結果
// Yield 為食譜產出份數，萃取不到時為 0
type Result struct {
	Ingredients []common.ParsedIngredient `json:"ingredients"`
	Yield       float64                   `json:"yield,omitempty"`
}

// Client 自由文字萃取服務客戶端
// 萃取服務本身是外部協作者，這裡只消費它的輸出；
// 回傳內容一律視為不可信，由調和管線做完整比對與退化處理
type Client struct {
	config *config.Config
	client *resty.Client
}

// NewClient 創建萃取服務客戶端
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(cfg.Extraction.BaseURL).
		SetTimeout(cfg.Extraction.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.Extraction.APIKey)).
		SetHeader("X-Title", "Recipe Costing")

	return &Client{
		config: cfg,
		client: client,
	}
}

// ExtractIngredients 從自由文字萃取食材條目與份數
func (c *Client) ExtractIngredients(ctx context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty recipe text")
	}

	prompt := `請從以下食譜文字萃取食材列表，並以最緊湊的 JSON 格式返回（省略所有空格和換行）。
		要求：
		1. 只萃取文字中實際出現的食材
		2. quantity 為數值；unit 為文字中的原始單位（tsp、tbsp、cup、ml、g、kg、piece...）
		3. 若文字標明幾人份，填入 yield，否則省略
		4. 若文字附有單價，填入 cost_per_unit，否則省略
		5. 所有欄位必須使用雙引號
		請以以下 JSON 格式返回：
		{"ingredients":[{"name":"食材名稱","quantity":0,"unit":"單位","cost_per_unit":0}],"yield":0}

		食譜文字：
		` + text

	req := map[string]interface{}{
		"model": c.config.Extraction.Model,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": prompt,
			},
		},
		"max_tokens": c.config.Extraction.MaxTokens,
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	if err != nil {
		common.LogExtractionCall(time.Since(start), 0, err, "")
		return nil, fmt.Errorf("failed to send request to extraction service: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("extraction service returned error: %s", resp.String())
	}

	// 解析回應
	var envelope struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := common.ParseJSONBytes(resp.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse extraction response: %w", err)
	}
	if len(envelope.Choices) == 0 {
		return nil, fmt.Errorf("no choices in extraction response")
	}

	content := common.ExtractJSONObject(envelope.Choices[0].Message.Content)
	var result Result
	if err := common.ParseJSON(content, &result); err != nil {
		// 鬆散 JSON 修補後再試一次
		if err := common.ParseJSON(common.QuoteJSONKeys(content), &result); err != nil {
			return nil, fmt.Errorf("failed to parse extracted ingredients: %w", err)
		}
	}

	result.Ingredients = sanitize(result.Ingredients)
	common.LogExtractionCall(time.Since(start), len(result.Ingredients), nil, "")
	return &result, nil
}

// sanitize 清理萃取條目：缺名稱的條目直接丟棄，負數量歸零
func sanitize(entries []common.ParsedIngredient) []common.ParsedIngredient {
	cleaned := make([]common.ParsedIngredient, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			common.LogDebug("略過缺名稱的萃取條目")
			continue
		}
		if e.Quantity < 0 {
			e.Quantity = 0
		}
		cleaned = append(cleaned, e)
	}
	return cleaned
}
