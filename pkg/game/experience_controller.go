package game

import (
	"log"

	"github.com/decker502/xmasgreeting/pkg/components"
	"github.com/decker502/xmasgreeting/pkg/utils"
)

// DefaultAutoOpenSeconds 开始后自动打开贺卡的默认延迟
const DefaultAutoOpenSeconds = 10.0

// Session 一次贺卡体验的会话状态
// 由 ExperienceController 独占修改，外部只拿到副本
type Session struct {
	Started     bool // 是否已点击星星开始
	MusicMuted  bool // 音乐是否处于暂停
	AudioFailed bool // 最近一次播放尝试是否失败
	CardVisible bool // 贺卡是否打开
}

// MusicService 控制器依赖的音乐接口（*AudioManager 实现）
type MusicService interface {
	PlayMusic()
	ReloadMusic()
	PauseMusic()
	Paused() bool
	Update()
	DrainEvents() []AudioEvent
	Close()
}

// ExperienceController 体验控制器
//
// 状态机：idle（未开始）-> active（已开始），不会回到 idle。
// 所有音频结果都以 AudioEvent 的形式送达，在 Update 中镜像到 Session，
// 因此播放器自行暂停等非用户操作也能反映到界面上。
type ExperienceController struct {
	music   MusicService
	session Session

	autoCard      components.TimerComponent
	autoCardArmed bool
	disposed      bool
}

// NewExperienceController 创建控制器
//
// 参数：
//   - music: 音乐服务，可为 nil（此时每次播放尝试都视为失败）
//   - autoOpenSeconds: 开始后自动打开贺卡的延迟（<=0 使用默认 10 秒）
func NewExperienceController(music MusicService, autoOpenSeconds float64) *ExperienceController {
	if autoOpenSeconds <= 0 {
		autoOpenSeconds = DefaultAutoOpenSeconds
	}
	return &ExperienceController{
		music:    music,
		autoCard: utils.NewTimer("auto_card", autoOpenSeconds, false),
	}
}

// Session 返回会话状态副本
func (c *ExperienceController) Session() Session {
	return c.session
}

// AutoCardRemaining 自动打开贺卡前剩余的秒数（未计时返回 0）
func (c *ExperienceController) AutoCardRemaining() float64 {
	if !c.autoCardArmed {
		return 0
	}
	return max(0, c.autoCard.TargetTime-c.autoCard.CurrentTime)
}

// Start 开始体验：播放音乐并启动一次性的自动开卡计时
// 重复调用是空操作
func (c *ExperienceController) Start() {
	if c.disposed || c.session.Started {
		return
	}
	c.session.Started = true
	log.Printf("[ExperienceController] Experience started")

	c.attemptPlay()

	utils.ResetTimer(&c.autoCard, c.autoCard.TargetTime)
	c.autoCardArmed = true
}

// RetryAudio 加载失败后重新加载并播放
func (c *ExperienceController) RetryAudio() {
	if c.disposed || !c.session.Started || !c.session.AudioFailed {
		return
	}
	log.Printf("[ExperienceController] Retrying audio")
	if c.music == nil {
		c.session.AudioFailed = true
		return
	}
	c.music.ReloadMusic()
}

// ToggleMusic 切换音乐：播放中则暂停，暂停中则尝试播放
func (c *ExperienceController) ToggleMusic() {
	if c.disposed || !c.session.Started {
		return
	}
	if c.music != nil && !c.music.Paused() {
		c.music.PauseMusic()
		c.session.MusicMuted = true
		return
	}
	c.attemptPlay()
}

// attemptPlay 发起一次播放尝试，结果由事件回填
func (c *ExperienceController) attemptPlay() {
	if c.music == nil {
		c.session.AudioFailed = true
		log.Printf("[ExperienceController] No music service, audio marked as failed")
		return
	}
	c.music.PlayMusic()
}

// OpenCard 打开贺卡（仅在已开始且贺卡未打开时有效）
// 不影响自动开卡计时：手动打开并关闭后，计时到点仍会再打开一次
func (c *ExperienceController) OpenCard() {
	if c.disposed || !c.session.Started || c.session.CardVisible {
		return
	}
	c.session.CardVisible = true
	log.Printf("[ExperienceController] Card opened")
}

// CloseCard 关闭贺卡
func (c *ExperienceController) CloseCard() {
	if !c.session.CardVisible {
		return
	}
	c.session.CardVisible = false
	log.Printf("[ExperienceController] Card closed")
}

// Update 每帧调用：处理音频事件并推进自动开卡计时
func (c *ExperienceController) Update(dt float64) {
	if c.disposed {
		return
	}

	if c.music != nil {
		c.music.Update()
		for _, ev := range c.music.DrainEvents() {
			c.applyAudioEvent(ev)
		}
	}

	if c.autoCardArmed && utils.AdvanceTimer(&c.autoCard, dt) {
		c.autoCardArmed = false
		if !c.session.CardVisible {
			c.session.CardVisible = true
			log.Printf("[ExperienceController] Card opened automatically")
		}
	}
}

// applyAudioEvent 把音频事件镜像到会话（幂等）
func (c *ExperienceController) applyAudioEvent(ev AudioEvent) {
	switch ev.Type {
	case AudioEventPlay:
		c.session.MusicMuted = false
		c.session.AudioFailed = false
	case AudioEventPause:
		c.session.MusicMuted = true
	case AudioEventError:
		c.session.AudioFailed = true
		log.Printf("[ExperienceController] Audio failed: %v", ev.Err)
	}
}

// Dispose 取消计时并关闭音乐
func (c *ExperienceController) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	c.autoCardArmed = false
	if c.music != nil {
		c.music.Close()
	}
}
