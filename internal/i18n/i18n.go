package i18n

import (
	"fmt"
	"strings"

	"github.com/luckyscan/internal/constants"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// DefaultLocale 默认语言
const DefaultLocale = constants.LocaleItIT

var matcher = language.NewMatcher([]language.Tag{
	language.MustParse(constants.LocaleItIT),
	language.MustParse(constants.LocaleEnUS),
})

// NormalizeLocale 将任意语言标识归一到支持的语言
func NormalizeLocale(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	return constants.SupportedLocales[idx]
}

// ResolveLocale 从请求解析语言：lang 参数优先，其次 X-Locale 与 Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		return NormalizeLocale(lang)
	}
	if header := strings.TrimSpace(c.GetHeader("X-Locale")); header != "" {
		return NormalizeLocale(header)
	}
	return NormalizeLocale(c.GetHeader("Accept-Language"))
}

// T 翻译指定 key，缺失时回退英文，再缺失返回 key 本身
func T(locale, key string) string {
	if table, ok := messages[locale]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[constants.LocaleEnUS][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化
func Sprintf(locale, key string, args ...interface{}) string {
	if len(args) == 0 {
		return T(locale, key)
	}
	return fmt.Sprintf(T(locale, key), args...)
}

// Has 判断 key 是否存在
func Has(key string) bool {
	_, ok := messages[constants.LocaleEnUS][key]
	return ok
}
