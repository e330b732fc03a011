package logger

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"seo-content-go/pkg/utils"
)

var (
	bearerPattern = regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9._\-]+`)
	secretPattern = regexp.MustCompile(`(?i)(api[_-]?key|token|secret)([=:]\s*)[^\s,]+`)
	skKeyPattern  = regexp.MustCompile(`sk-[A-Za-z0-9_\-]{8,}`)
)

// SecurityLogger keeps API keys and confidential company documents out of
// log output.
type SecurityLogger struct {
	*Logger
}

func NewSecurityLogger() *SecurityLogger {
	return &SecurityLogger{Logger: GetLogger()}
}

// MaskAPIKey returns a stable fingerprint for a secret.
func (sl *SecurityLogger) MaskAPIKey(key string) string {
	if key == "" {
		return "unset"
	}
	return "key#" + utils.HashShort(key)
}

// MaskEndpoint keeps the host of a service URL and hides the rest.
func (sl *SecurityLogger) MaskEndpoint(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return "endpoint#" + utils.HashShort(rawURL)
	}
	return fmt.Sprintf("%s#%s", parsed.Host, utils.HashShort(rawURL))
}

// MaskDocument summarises document text without exposing it.
func (sl *SecurityLogger) MaskDocument(text string) string {
	if text == "" {
		return "empty"
	}
	return fmt.Sprintf("chars=%d,sha=%s", len(text), utils.HashShort(text))
}

// MaskSensitiveData masks values whose key names a secret, a document or a
// prompt.
func (sl *SecurityLogger) MaskSensitiveData(data map[string]interface{}) map[string]interface{} {
	masked := make(map[string]interface{}, len(data))
	for key, value := range data {
		lowerKey := strings.ToLower(key)
		str, isString := value.(string)

		switch {
		case !isString:
			masked[key] = value
		case strings.Contains(lowerKey, "key") || strings.Contains(lowerKey, "token") || strings.Contains(lowerKey, "secret"):
			masked[key] = sl.MaskAPIKey(str)
		case strings.Contains(lowerKey, "endpoint") || strings.Contains(lowerKey, "url"):
			masked[key] = sl.MaskEndpoint(str)
		case strings.Contains(lowerKey, "document") || strings.Contains(lowerKey, "prompt") || strings.Contains(lowerKey, "text"):
			masked[key] = sl.MaskDocument(str)
		default:
			masked[key] = value
		}
	}
	return masked
}

// MaskLogMessage scrubs secrets embedded in free text.
func (sl *SecurityLogger) MaskLogMessage(message string) string {
	masked := bearerPattern.ReplaceAllString(message, "${1}***")
	masked = secretPattern.ReplaceAllString(masked, "${1}${2}***")
	return skKeyPattern.ReplaceAllString(masked, "sk-***")
}

// SafeInfo logs info with automatic sensitive data masking
func (sl *SecurityLogger) SafeInfo(msg string, fields map[string]interface{}) {
	if fields != nil {
		sl.Logger.WithFields(sl.MaskSensitiveData(fields)).Info(sl.MaskLogMessage(msg))
		return
	}
	sl.Logger.Info(sl.MaskLogMessage(msg))
}

// SafeError logs error with automatic sensitive data masking
func (sl *SecurityLogger) SafeError(msg string, err error, fields map[string]interface{}) {
	maskedFields := map[string]interface{}{
		"error": sl.MaskLogMessage(err.Error()),
	}
	for k, v := range sl.MaskSensitiveData(fields) {
		maskedFields[k] = v
	}
	sl.Logger.WithFields(maskedFields).Error(sl.MaskLogMessage(msg))
}

// SafeWarn logs warning with automatic sensitive data masking
func (sl *SecurityLogger) SafeWarn(msg string, fields map[string]interface{}) {
	if fields != nil {
		sl.Logger.WithFields(sl.MaskSensitiveData(fields)).Warn(sl.MaskLogMessage(msg))
		return
	}
	sl.Logger.Warn(sl.MaskLogMessage(msg))
}

// GetSecurityLogger returns a security logger bound to the current global logger.
func GetSecurityLogger() *SecurityLogger {
	return NewSecurityLogger()
}
