package gender

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Category 人群类别
type Category string

const (
	CategoryFemale  Category = "F"
	CategoryMale    Category = "M"
	CategoryUnknown Category = "U"
)

// Confidence 推断置信度
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Result 推断结果
type Result struct {
	Category   Category   `json:"category"`
	Confidence Confidence `json:"confidence"`
}

// Classifier 名字分类策略
type Classifier interface {
	Classify(name string) Category
}

// ParseCategory 解析类别，空值或非法值返回 CategoryUnknown
func ParseCategory(raw string) Category {
	switch Category(strings.ToUpper(strings.TrimSpace(raw))) {
	case CategoryFemale:
		return CategoryFemale
	case CategoryMale:
		return CategoryMale
	default:
		return CategoryUnknown
	}
}

// IsKnown 是否为确定类别
func (c Category) IsKnown() bool {
	return c == CategoryFemale || c == CategoryMale
}

// maleEndingInA 以 a 结尾的男性名
var maleEndingInA = map[string]struct{}{
	"luca": {}, "andrea": {}, "nicola": {}, "mattia": {}, "elia": {},
	"isaia": {}, "geremia": {}, "giona": {}, "osea": {}, "battista": {},
}

var (
	femaleSuffixes = []string{"ella", "etta", "ina", "essa", "ilde"}
	maleSuffixes   = []string{"ino", "ello", "etto", "one", "ardo", "aldo"}
)

// NameListClassifier 基于名单与后缀规则的分类器
type NameListClassifier struct {
	female map[string]struct{}
	male   map[string]struct{}
}

// NewNameListClassifier 创建使用内置名单的分类器
func NewNameListClassifier() *NameListClassifier {
	return &NameListClassifier{female: femaleNames, male: maleNames}
}

// NewNameListClassifierWith 创建使用自定义名单的分类器
func NewNameListClassifierWith(female, male []string) *NameListClassifier {
	c := &NameListClassifier{
		female: make(map[string]struct{}, len(female)),
		male:   make(map[string]struct{}, len(male)),
	}
	for _, name := range female {
		if normalized := Normalize(name); normalized != "" {
			c.female[normalized] = struct{}{}
		}
	}
	for _, name := range male {
		normalized := Normalize(name)
		if normalized == "" {
			continue
		}
		if _, exists := c.female[normalized]; exists {
			continue
		}
		c.male[normalized] = struct{}{}
	}
	return c
}

// Classify 实现 Classifier
func (c *NameListClassifier) Classify(name string) Category {
	return c.Infer(name).Category
}

// Infer 推断类别与置信度，任意输入都不会失败
func (c *NameListClassifier) Infer(name string) Result {
	normalized := Normalize(name)
	if normalized == "" {
		return Result{Category: CategoryUnknown, Confidence: ConfidenceLow}
	}
	if c != nil {
		if _, ok := c.female[normalized]; ok {
			return Result{Category: CategoryFemale, Confidence: ConfidenceHigh}
		}
		if _, ok := c.male[normalized]; ok {
			return Result{Category: CategoryMale, Confidence: ConfidenceHigh}
		}
	}

	if strings.HasSuffix(normalized, "a") && len(normalized) > 2 {
		if _, exception := maleEndingInA[normalized]; !exception {
			return Result{Category: CategoryFemale, Confidence: ConfidenceMedium}
		}
	}
	if strings.HasSuffix(normalized, "o") {
		return Result{Category: CategoryMale, Confidence: ConfidenceMedium}
	}
	if hasAnySuffix(normalized, femaleSuffixes) {
		return Result{Category: CategoryFemale, Confidence: ConfidenceMedium}
	}
	if hasAnySuffix(normalized, maleSuffixes) {
		return Result{Category: CategoryMale, Confidence: ConfidenceMedium}
	}
	return Result{Category: CategoryUnknown, Confidence: ConfidenceLow}
}

// Normalize 去空白、转小写、去重音，仅保留 a-z
func Normalize(name string) string {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	if trimmed == "" {
		return ""
	}
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn))), trimmed)
	if err != nil {
		folded = trimmed
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func hasAnySuffix(value string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(value, suffix) {
			return true
		}
	}
	return false
}
