package config

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/decker502/xmasgreeting/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// DefaultExperienceConfigPath 嵌入的默认配置路径
const DefaultExperienceConfigPath = "data/experience.yaml"

// ExperienceConfig 贺卡体验的完整配置
//
// 所有文案与时序都是配置数据，核心逻辑只消费这些值。
// 时间单位统一为秒（与游戏循环的 deltaTime 一致）。
type ExperienceConfig struct {
	Title     string       `yaml:"title"`     // 顶部标题
	Audio     AudioConfig  `yaml:"audio"`     // 背景音乐
	Prompt    PromptConfig `yaml:"prompt"`    // 开始前星星下方的提示语
	Greetings []Greeting   `yaml:"greetings"` // 滚动祝福语（可以为空）
	Ticker    TickerConfig `yaml:"ticker"`    // 祝福语滚动时序
	Card      CardConfig   `yaml:"card"`      // 贺卡
	Snow      SnowConfig   `yaml:"snow"`      // 雪花
	Tree      TreeConfig   `yaml:"tree"`      // 圣诞树灯串
	Font      FontConfig   `yaml:"font"`      // 可选字体覆盖
}

// AudioConfig 背景音乐配置
type AudioConfig struct {
	// Source 音乐来源：http(s) URL、嵌入路径（data/...）或本地文件路径
	Source         string  `yaml:"source"`
	Volume         float64 `yaml:"volume"`         // 0.0 ~ 1.0
	TimeoutSeconds float64 `yaml:"timeoutSeconds"` // 网络下载超时
	Warning        string  `yaml:"warning"`        // 加载失败标题
	Hint           string  `yaml:"hint"`           // 加载失败说明
	RetryLabel     string  `yaml:"retryLabel"`     // 重试按钮文字
}

// PromptConfig 开始提示语（打字机效果，打完后停顿再重新打）
type PromptConfig struct {
	Text       string  `yaml:"text"`
	CharDelay  float64 `yaml:"charDelay"`
	PauseAfter float64 `yaml:"pauseAfter"`
}

// Greeting 一条滚动祝福语
type Greeting struct {
	ID   int    `yaml:"id"`
	Text string `yaml:"text"`
}

// TickerConfig 祝福语滚动配置
type TickerConfig struct {
	DwellSeconds float64 `yaml:"dwellSeconds"` // 每条祝福语的停留（滚动）时间
}

// CardConfig 贺卡配置
type CardConfig struct {
	AutoOpenSeconds float64 `yaml:"autoOpenSeconds"` // 开始后自动打开贺卡的延迟
	CharDelay       float64 `yaml:"charDelay"`       // 每个字符的间隔
	LinePause       float64 `yaml:"linePause"`       // 行与行之间的停顿
	CursorBlink     float64 `yaml:"cursorBlink"`     // 光标闪烁半周期

	Title      string `yaml:"title"`
	Salutation string `yaml:"salutation"` // 全部显示后淡入的落款
	SkipHint   string `yaml:"skipHint"`
	OpenHint   string `yaml:"openHint"`

	// ActiveSet 当前使用的文案集合名
	ActiveSet string `yaml:"activeSet"`
	// Sets 文案集合：名称 -> 行列表
	Sets map[string][]string `yaml:"sets"`
}

// SnowConfig 雪花配置
type SnowConfig struct {
	Count int `yaml:"count"`
}

// TreeConfig 圣诞树灯串配置
type TreeConfig struct {
	Count         int      `yaml:"count"`
	Turns         int      `yaml:"turns"`
	BaseRadius    float64  `yaml:"baseRadius"`
	Height        float64  `yaml:"height"`
	VerticalShift float64  `yaml:"verticalShift"` // 整体垂直偏移
	SpinPeriod    float64  `yaml:"spinPeriod"`    // 旋转一圈的秒数
	Perspective   float64  `yaml:"perspective"`   // 透视距离（像素）
	FadeInSeconds float64  `yaml:"fadeInSeconds"` // 开始后淡入时长
	Palette       []string `yaml:"palette"`       // "#rrggbb" 颜色列表
}

// FontConfig 字体覆盖（为空则使用内置 Go 字体）
type FontConfig struct {
	Regular string `yaml:"regular"`
	Bold    string `yaml:"bold"`
}

// DefaultExperienceConfig 返回默认配置
// YAML 中未出现的字段保留这里的值
func DefaultExperienceConfig() *ExperienceConfig {
	return &ExperienceConfig{
		Title: "MERRY CHRISTMAS",
		Audio: AudioConfig{
			Volume:         0.5,
			TimeoutSeconds: 20,
			Warning:        "MUSIC FAILED TO LOAD",
			Hint:           "Check the network connection or the music link",
			RetryLabel:     "RETRY",
		},
		Prompt: PromptConfig{
			Text:       "Touch the star",
			CharDelay:  0.1,
			PauseAfter: 2.0,
		},
		Ticker: TickerConfig{DwellSeconds: 10},
		Card: CardConfig{
			AutoOpenSeconds: 10,
			CharDelay:       0.05,
			LinePause:       0.3,
			CursorBlink:     0.5,
			Title:           "Season's Greetings",
			Salutation:      "Merry Christmas!",
			SkipHint:        "Tap to show everything...",
			OpenHint:        "Open the greeting card",
			ActiveSet:       "generic",
			Sets: map[string][]string{
				"generic": {
					"Wishing you a warm Christmas season full of love!",
					"May these holidays bring wonderful moments with your family and friends.",
					"Thank you for sharing the joys of this year. Happy New Year!",
				},
			},
		},
		Snow: SnowConfig{Count: 150},
		Tree: TreeConfig{
			Count:         150,
			Turns:         12,
			BaseRadius:    180,
			Height:        450,
			VerticalShift: 50,
			SpinPeriod:    15,
			Perspective:   1000,
			FadeInSeconds: 1,
			Palette:       []string{"#ff0000", "#00ff00", "#0000ff", "#ffff00", "#ff00ff", "#00ffff", "#ffffff"},
		},
	}
}

// LoadExperienceConfig 加载配置文件
//
// 以 "data/" 开头且存在于嵌入文件系统中的路径从嵌入资源读取，
// 否则从磁盘读取。
//
// 参数：
//   - path: 配置路径
//
// 返回：
//   - *ExperienceConfig: 合并默认值并通过校验的配置
//   - error: 读取、解析或校验失败
func LoadExperienceConfig(path string) (*ExperienceConfig, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(path, "data/") && embedded.IsInitialized() && embedded.Exists(path) {
		data, err = embedded.ReadFile(path)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read experience config %s: %w", path, err)
	}

	cfg, err := ParseExperienceConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid experience config %s: %w", path, err)
	}

	log.Printf("[Config] Loaded %s: %d greetings, %d card sets (active: %s)",
		path, len(cfg.Greetings), len(cfg.Card.Sets), cfg.Card.ActiveSet)
	return cfg, nil
}

// ParseExperienceConfig 从 YAML 数据解析配置（在默认值之上覆盖）并校验
func ParseExperienceConfig(data []byte) (*ExperienceConfig, error) {
	cfg := DefaultExperienceConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置
//
// 空的祝福语列表和空的贺卡文案是合法的（分别表现为不显示滚动条、
// 贺卡直接显示落款）；非正的时长、越界音量、未知文案集合则是错误。
func (c *ExperienceConfig) Validate() error {
	var errs []error

	positive := map[string]float64{
		"audio.timeoutSeconds": c.Audio.TimeoutSeconds,
		"prompt.charDelay":     c.Prompt.CharDelay,
		"ticker.dwellSeconds":  c.Ticker.DwellSeconds,
		"card.autoOpenSeconds": c.Card.AutoOpenSeconds,
		"card.charDelay":       c.Card.CharDelay,
		"card.cursorBlink":     c.Card.CursorBlink,
		"tree.spinPeriod":      c.Tree.SpinPeriod,
		"tree.perspective":     c.Tree.Perspective,
		"tree.height":          c.Tree.Height,
		"tree.baseRadius":      c.Tree.BaseRadius,
	}
	for _, name := range sortedKeys(positive) {
		if positive[name] <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, positive[name]))
		}
	}

	nonNegative := map[string]float64{
		"prompt.pauseAfter":  c.Prompt.PauseAfter,
		"card.linePause":     c.Card.LinePause,
		"tree.fadeInSeconds": c.Tree.FadeInSeconds,
	}
	for _, name := range sortedKeys(nonNegative) {
		if nonNegative[name] < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %v", name, nonNegative[name]))
		}
	}

	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("audio.volume must be within [0, 1], got %v", c.Audio.Volume))
	}
	if c.Snow.Count <= 0 {
		errs = append(errs, fmt.Errorf("snow.count must be positive, got %d", c.Snow.Count))
	}
	if c.Tree.Count <= 0 {
		errs = append(errs, fmt.Errorf("tree.count must be positive, got %d", c.Tree.Count))
	}
	if c.Tree.Turns <= 0 {
		errs = append(errs, fmt.Errorf("tree.turns must be positive, got %d", c.Tree.Turns))
	}
	if len(c.Tree.Palette) == 0 {
		errs = append(errs, errors.New("tree.palette must not be empty"))
	}
	for _, hex := range c.Tree.Palette {
		if _, err := ParseHexColor(hex); err != nil {
			errs = append(errs, fmt.Errorf("tree.palette: %w", err))
		}
	}
	if _, ok := c.Card.Sets[c.Card.ActiveSet]; !ok {
		errs = append(errs, fmt.Errorf("card.activeSet %q is not defined in card.sets", c.Card.ActiveSet))
	}

	return errors.Join(errs...)
}

// SelectCardSet 切换当前贺卡文案集合
func (c *ExperienceConfig) SelectCardSet(name string) error {
	if _, ok := c.Card.Sets[name]; !ok {
		return fmt.Errorf("unknown card set %q", name)
	}
	c.Card.ActiveSet = name
	return nil
}

// CardLines 返回当前文案集合的行列表（副本）
func (c *ExperienceConfig) CardLines() []string {
	lines := c.Card.Sets[c.Card.ActiveSet]
	return append([]string(nil), lines...)
}

// GreetingTexts 返回祝福语文本列表
func (c *ExperienceConfig) GreetingTexts() []string {
	texts := make([]string, 0, len(c.Greetings))
	for _, g := range c.Greetings {
		texts = append(texts, g.Text)
	}
	return texts
}

// PaletteColors 返回解析后的调色板
// 调用前配置应已通过 Validate，非法颜色会被跳过
func (c *ExperienceConfig) PaletteColors() []color.RGBA {
	colors := make([]color.RGBA, 0, len(c.Tree.Palette))
	for _, hex := range c.Tree.Palette {
		if clr, err := ParseHexColor(hex); err == nil {
			colors = append(colors, clr)
		}
	}
	return colors
}

// ParseHexColor 解析 "#rrggbb" 或 "#rgb" 格式颜色
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q (expected #rrggbb)", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// sortedKeys 保证错误信息顺序稳定
func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
