// internal/validation/gmail.go
// 發送 Gmail 請求的格式驗證

package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"

	"gmail-sender/internal/models"
)

// ErrMalformedJSON 請求內容不是合法的 JSON 物件或陣列
var ErrMalformedJSON = errors.New("malformed JSON payload")

// Issue 單一驗證失敗訊息
type Issue struct {
	Field   string
	Message string
}

// 請求欄位名稱
const (
	FieldSenderAddress   = "senderGmailAddress"
	FieldAppPassword     = "senderGmailAppPassword"
	FieldReceiverAddress = "receiverGmailAddress"
	FieldSubject         = "gmailSubject"
	FieldBody            = "gmailBody"
)

const (
	gmailDomainToken      = "@gmail.com"
	minGmailAddressLength = 11
	minAppPasswordLength  = 16

	messageRequired = "Required"
)

// check 單一字串規則
type check struct {
	ok      func(string) bool
	message string
}

// fieldRule 單一欄位的規則，依宣告順序檢查
type fieldRule struct {
	name     string
	optional bool
	checks   []check
}

var sendGmailSchema = []fieldRule{
	{
		name: FieldSenderAddress,
		checks: []check{
			{contains(gmailDomainToken), "Sender's Gmail must include valid tokens/domains like '@', 'gmail.com'"},
			{minLength(minGmailAddressLength), "Sender's Gmail address cannot be empty, eg. 'sender123@gmail.com'"},
		},
	},
	{
		name: FieldAppPassword,
		checks: []check{
			{minLength(minAppPasswordLength), "Sender's Gmail App Password is 4x4 long string, eg. 'abcd efgh ijkl mnop'"},
		},
	},
	{
		name: FieldReceiverAddress,
		checks: []check{
			{contains(gmailDomainToken), "Receiver's Gmail must include valid tokens/domains like '@', 'gmail.com'"},
			{minLength(minGmailAddressLength), "Receiver's Gmail address cannot be empty, eg. 'receiver123@gmail.com'"},
		},
	},
	{
		name:     FieldSubject,
		optional: true,
	},
	{
		name: FieldBody,
		checks: []check{
			{minLength(1), "Email Body cannot be empty"},
		},
	},
}

// Validate 驗證原始請求內容
//
// 空白內容視為 {}。只有 JSON 語法錯誤 (或頂層為純量) 才會回傳 error，
// 欄位不符規則時回傳 issues，且 request 為 nil。
func Validate(raw []byte) (*models.EmailSendRequest, []Issue, error) {
	payload, err := decode(raw)
	if err != nil {
		return nil, nil, err
	}

	object, ok := payload.(map[string]any)
	if !ok {
		return nil, []Issue{{Message: fmt.Sprintf("Expected object, received %s", typeName(payload))}}, nil
	}

	return ValidateObject(object)
}

// ValidateObject 驗證已解析的 JSON 物件
func ValidateObject(object map[string]any) (*models.EmailSendRequest, []Issue, error) {
	var issues []Issue
	values := make(map[string]string, len(sendGmailSchema))
	present := make(map[string]bool, len(sendGmailSchema))

	for _, rule := range sendGmailSchema {
		value, exists := object[rule.name]
		if !exists {
			if !rule.optional {
				issues = append(issues, Issue{Field: rule.name, Message: messageRequired})
			}
			continue
		}

		str, isString := value.(string)
		if !isString {
			issues = append(issues, Issue{
				Field:   rule.name,
				Message: fmt.Sprintf("Expected string, received %s", typeName(value)),
			})
			continue
		}

		// 同一欄位的所有規則都會檢查，不會在第一個失敗時停止
		for _, c := range rule.checks {
			if !c.ok(str) {
				issues = append(issues, Issue{Field: rule.name, Message: c.message})
			}
		}

		values[rule.name] = str
		present[rule.name] = true
	}

	if len(issues) > 0 {
		return nil, issues, nil
	}

	req := &models.EmailSendRequest{
		SenderAddress:   values[FieldSenderAddress],
		AppPassword:     values[FieldAppPassword],
		ReceiverAddress: values[FieldReceiverAddress],
		Body:            values[FieldBody],
	}
	if present[FieldSubject] {
		subject := values[FieldSubject]
		req.Subject = &subject
	}

	return req, nil, nil
}

// Messages 取出 issue 訊息 (保持順序)
func Messages(issues []Issue) []string {
	messages := make([]string, 0, len(issues))
	for _, issue := range issues {
		messages = append(messages, issue.Message)
	}
	return messages
}

// decode 解析請求內容，頂層只接受物件或陣列
func decode(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return map[string]any{}, nil
	}

	if trimmed[0] != '{' && trimmed[0] != '[' {
		return nil, ErrMalformedJSON
	}

	var payload any
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	return payload, nil
}

// typeName JSON 值的型別名稱
func typeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64, json.Number:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}

func contains(token string) func(string) bool {
	return func(s string) bool {
		return strings.Contains(s, token)
	}
}

// minLength 以 UTF-16 code unit 計算長度
func minLength(n int) func(string) bool {
	return func(s string) bool {
		return utf16Len(s) >= n
	}
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
