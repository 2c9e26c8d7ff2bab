package constants

// 验证码提供方常量
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 验证码校验场景常量
const (
	CaptchaSceneRegister   = "register"
	CaptchaSceneStaffLogin = "staff_login"
)

// 队列常量
const (
	QueueDefault           = "default"
	QueueCritical          = "critical"
	TaskLeaderboardRefresh = "leaderboard:refresh"
	TaskPrizeStockAlert    = "prize:stock_alert"
	TaskPlayWinnerNotify   = "play:winner_notify"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "ls"
)

// 站点语言常量
const (
	LocaleItIT = "it-IT"
	LocaleEnUS = "en-US"
)

// 支持的站点语言顺序（含回退顺序）
var SupportedLocales = []string{LocaleItIT, LocaleEnUS}

// 导出格式常量
const (
	ExportFormatCSV = "csv"
	ExportFormatTXT = "txt"
)

// 券码字符集（去除易混淆字符前的 base36 大写）
const TokenCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// 兑奖码前缀
const PrizeCodePrefix = "WIN"
