package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/multivend/marketd/internal/domain"
)

// ConfigManager caches sys_config rows in memory. Reads hit the cache;
// writes go through to the database and refresh the cached entry.
type ConfigManager struct {
	app      *Application
	mu       sync.RWMutex
	values   map[string]string
	loadedAt time.Time
}

const configCacheTTL = 30 * time.Second

func NewConfigManager(app *Application) *ConfigManager {
	return &ConfigManager{app: app, values: make(map[string]string)}
}

func configKey(category, name string) string {
	return category + "." + name
}

func (m *ConfigManager) reloadIfStale() {
	m.mu.RLock()
	stale := time.Since(m.loadedAt) > configCacheTTL
	m.mu.RUnlock()
	if !stale {
		return
	}

	var rows []domain.SysConfig
	if err := m.app.DB().Find(&rows).Error; err != nil {
		zap.L().Error("failed to load sys_config", zap.Error(err))
		return
	}

	next := make(map[string]string, len(rows))
	for _, row := range rows {
		next[configKey(row.Type, row.Name)] = row.Value
	}

	m.mu.Lock()
	m.values = next
	m.loadedAt = time.Now()
	m.mu.Unlock()
}

func (m *ConfigManager) get(category, name string) string {
	m.reloadIfStale()
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[configKey(category, name)]
}

func (m *ConfigManager) GetString(category, name string) string {
	return m.get(category, name)
}

func (m *ConfigManager) GetInt(category, name string) int {
	return cast.ToInt(m.get(category, name))
}

func (m *ConfigManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(m.get(category, name))
}

func (m *ConfigManager) GetFloat64(category, name string) float64 {
	return cast.ToFloat64(m.get(category, name))
}

func (m *ConfigManager) GetBool(category, name string) bool {
	return cast.ToBool(m.get(category, name))
}

// SetValue writes a setting through to the database and the cache.
func (m *ConfigManager) SetValue(category, name string, value interface{}) error {
	strVal := fmt.Sprintf("%v", value)
	err := m.app.DB().Model(&domain.SysConfig{}).
		Where("type = ? and name = ?", category, name).
		Update("value", strVal).Error
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.values[configKey(category, name)] = strVal
	m.mu.Unlock()
	return nil
}
