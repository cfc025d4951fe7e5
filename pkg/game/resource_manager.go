package game

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/decker502/xmasgreeting/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Built-in font identifiers accepted by LoadFontSource and LoadFont.
const (
	FontRegular = "builtin:regular"
	FontBold    = "builtin:bold"
)

// maxMusicBytes caps how much a remote music source may download.
const maxMusicBytes = 32 << 20

// ResourceManager is responsible for loading the assets the greeting needs:
// the background music stream and the text faces.
//
// Music can come from three kinds of sources:
//   - an http:// or https:// URL, fetched with a timeout
//   - an embedded path starting with "data/"
//   - a local file path
//
// Thread Safety Note:
// LoadMusic is called from the AudioManager's loader goroutine and only touches
// the audio context and the HTTP client, both of which are safe for concurrent
// use. The font caches are guarded by a mutex so fonts may be requested from
// any goroutine, although in practice they are loaded once at startup.
//
// Usage:
//
//	audioContext := audio.NewContext(48000)
//	rm := NewResourceManager(audioContext, 20*time.Second)
//	face, err := rm.LoadFont(FontBold, 52)
type ResourceManager struct {
	audioContext *audio.Context // Global audio context used to create players
	httpClient   *http.Client   // Client for remote music sources

	fontMu          sync.Mutex
	fontSourceCache map[string]*text.GoTextFaceSource // path -> parsed font
	fontFaceCache   map[string]*text.GoTextFace       // "path:size" -> face
}

// NewResourceManager creates and initializes a new ResourceManager instance.
//
// Parameters:
//   - audioContext: The global audio context. May be nil, in which case every
//     music load fails with an error (the rest of the greeting keeps working).
//   - fetchTimeout: Timeout for downloading remote music. Zero means no timeout.
//
// Returns:
//   - A pointer to a newly initialized ResourceManager with empty caches.
func NewResourceManager(audioContext *audio.Context, fetchTimeout time.Duration) *ResourceManager {
	return &ResourceManager{
		audioContext:    audioContext,
		httpClient:      &http.Client{Timeout: fetchTimeout},
		fontSourceCache: make(map[string]*text.GoTextFaceSource),
		fontFaceCache:   make(map[string]*text.GoTextFace),
	}
}

// LoadMusic fetches and decodes the music source and returns a looping player.
// The player is created paused; the caller decides when to start it.
//
// Parameters:
//   - ctx: Cancels a remote download in flight.
//   - source: URL, embedded "data/..." path or local file path (.mp3 or .ogg).
//
// Returns:
//   - A MusicPlayer wrapping an *audio.Player.
//   - An error if the source cannot be read, decoded, or played.
func (rm *ResourceManager) LoadMusic(ctx context.Context, source string) (MusicPlayer, error) {
	if rm.audioContext == nil {
		return nil, fmt.Errorf("audio is unavailable: no audio context")
	}

	data, err := rm.readSource(ctx, source)
	if err != nil {
		return nil, err
	}

	player, err := rm.NewMusicPlayer(musicFormat(source), data)
	if err != nil {
		return nil, err
	}
	return player, nil
}

// NewMusicPlayer decodes in-memory audio data and wraps it in an infinite loop.
//
// Parameters:
//   - ext: The format extension, ".mp3" or ".ogg".
//   - data: The encoded audio bytes.
//
// Returns:
//   - The audio player (ready to play, but not started).
//   - An error if the format is unsupported or the data is corrupted.
func (rm *ResourceManager) NewMusicPlayer(ext string, data []byte) (*audio.Player, error) {
	if rm.audioContext == nil {
		return nil, fmt.Errorf("audio is unavailable: no audio context")
	}

	stream, err := decodeMusic(ext, data)
	if err != nil {
		return nil, err
	}

	// Wrap the stream in an infinite loop for background music
	loopStream := audio.NewInfiniteLoop(stream, stream.Length())

	player, err := rm.audioContext.NewPlayer(loopStream)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio player: %w", err)
	}
	return player, nil
}

// decodeMusic picks the decoder by extension.
func decodeMusic(ext string, data []byte) (interface {
	io.ReadSeeker
	Length() int64
}, error) {
	reader := bytes.NewReader(data)

	switch ext {
	case ".mp3":
		stream, err := mp3.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode MP3 audio: %w", err)
		}
		return stream, nil
	case ".ogg":
		stream, err := vorbis.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode OGG audio: %w", err)
		}
		return stream, nil
	default:
		return nil, fmt.Errorf("unsupported audio format: %q (supported: .mp3, .ogg)", ext)
	}
}

// musicFormat returns the lower-cased extension of a source, ignoring any URL
// query string or fragment.
func musicFormat(source string) string {
	p := source
	if isRemoteSource(source) {
		if u, err := url.Parse(source); err == nil {
			p = u.Path
		}
	}
	return strings.ToLower(path.Ext(p))
}

// isRemoteSource reports whether the source has to be downloaded.
func isRemoteSource(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// readSource reads the whole source into memory so the decoder can seek freely.
func (rm *ResourceManager) readSource(ctx context.Context, source string) ([]byte, error) {
	if source == "" {
		return nil, fmt.Errorf("no music source configured")
	}

	if isRemoteSource(source) {
		return rm.fetch(ctx, source)
	}

	if embedded.IsInitialized() && embedded.Exists(source) {
		data, err := embedded.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded audio %s: %w", source, err)
		}
		return data, nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file %s: %w", source, err)
	}
	return data, nil
}

// fetch downloads a remote source.
func (rm *ResourceManager) fetch(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid music URL %s: %w", source, err)
	}

	resp, err := rm.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch music %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch music %s: unexpected status %s", source, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxMusicBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to download music %s: %w", source, err)
	}
	if len(data) > maxMusicBytes {
		return nil, fmt.Errorf("music %s exceeds %d bytes", source, maxMusicBytes)
	}
	return data, nil
}

// LoadFontSource parses a font and caches it.
//
// Parameters:
//   - path: FontRegular, FontBold, an embedded "data/..." path or a TTF/OTF file.
//
// Returns:
//   - The parsed font source.
//   - An error if the font cannot be read or parsed.
func (rm *ResourceManager) LoadFontSource(path string) (*text.GoTextFaceSource, error) {
	rm.fontMu.Lock()
	defer rm.fontMu.Unlock()
	return rm.loadFontSourceLocked(path)
}

func (rm *ResourceManager) loadFontSourceLocked(path string) (*text.GoTextFaceSource, error) {
	if cached, exists := rm.fontSourceCache[path]; exists {
		return cached, nil
	}

	var fontData []byte
	switch path {
	case FontRegular:
		fontData = goregular.TTF
	case FontBold:
		fontData = gobold.TTF
	default:
		var err error
		if embedded.IsInitialized() && embedded.Exists(path) {
			fontData, err = embedded.ReadFile(path)
		} else {
			fontData, err = os.ReadFile(path)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read font file %s: %w", path, err)
		}
	}

	source, err := text.NewGoTextFaceSource(bytes.NewReader(fontData))
	if err != nil {
		return nil, fmt.Errorf("failed to create font source for %s: %w", path, err)
	}

	rm.fontSourceCache[path] = source
	return source, nil
}

// LoadFont loads a font face of the given size and caches it.
//
// Parameters:
//   - path: See LoadFontSource.
//   - size: The font size in pixels.
//
// Returns:
//   - A pointer to the text.GoTextFace.
//   - An error if the font cannot be loaded.
func (rm *ResourceManager) LoadFont(path string, size float64) (*text.GoTextFace, error) {
	rm.fontMu.Lock()
	defer rm.fontMu.Unlock()

	cacheKey := fmt.Sprintf("%s:%.1f", path, size)
	if cached, exists := rm.fontFaceCache[cacheKey]; exists {
		return cached, nil
	}

	source, err := rm.loadFontSourceLocked(path)
	if err != nil {
		return nil, err
	}

	face := &text.GoTextFace{
		Source:    source,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
	rm.fontFaceCache[cacheKey] = face
	return face, nil
}

// LoadFontOr loads the override font when one is configured and falls back to
// the built-in font otherwise (or when the override cannot be loaded).
func (rm *ResourceManager) LoadFontOr(override, builtin string, size float64) (*text.GoTextFace, error) {
	if override != "" {
		face, err := rm.LoadFont(override, size)
		if err == nil {
			return face, nil
		}
		log.Printf("[ResourceManager] Warning: %v (falling back to %s)", err, builtin)
	}
	return rm.LoadFont(builtin, size)
}
