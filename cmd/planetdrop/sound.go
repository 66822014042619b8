package main

import (
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

const sampleRate = 44100

// tone renders a decaying sine as 16-bit little endian stereo PCM.
func tone(freq float64, dur time.Duration, decay float64) []byte {
	n := int(float64(sampleRate) * dur.Seconds())
	buf := make([]byte, n*4)
	for i := 0; i < n; i++ {
		t := float64(i) / sampleRate
		envelope := math.Exp(-decay * t)
		v := int16(math.Sin(2*math.Pi*freq*t) * 6000 * envelope)
		for ch := 0; ch < 2; ch++ {
			idx := i*4 + ch*2
			buf[idx] = byte(v)
			buf[idx+1] = byte(v >> 8)
		}
	}
	return buf
}

// mergeFrequency rises a semitone-ish step per rank.
func mergeFrequency(rank int) float64 {
	return 330 * math.Pow(2, float64(rank)/6)
}

// soundboard holds one prebuilt player per effect. A nil soundboard is silent.
type soundboard struct {
	drop     *audio.Player
	shake    *audio.Player
	gameOver *audio.Player
	merges   []*audio.Player
	logger   *log.Logger
}

func newSoundboard(rankCount int, logger *log.Logger) *soundboard {
	ctx := audio.NewContext(sampleRate)
	sb := &soundboard{
		drop:     ctx.NewPlayerFromBytes(tone(520, 80*time.Millisecond, 30)),
		shake:    ctx.NewPlayerFromBytes(tone(90, 250*time.Millisecond, 6)),
		gameOver: ctx.NewPlayerFromBytes(tone(196, 700*time.Millisecond, 3)),
		merges:   make([]*audio.Player, rankCount),
		logger:   logger,
	}
	for i := range sb.merges {
		sb.merges[i] = ctx.NewPlayerFromBytes(tone(mergeFrequency(i), 150*time.Millisecond, 12))
	}
	return sb
}

func (sb *soundboard) play(p *audio.Player) {
	if err := p.Rewind(); err != nil {
		sb.logger.Debug("rewind", "err", err)
		return
	}
	p.Play()
}

func (sb *soundboard) playDrop() {
	if sb != nil {
		sb.play(sb.drop)
	}
}

func (sb *soundboard) playShake() {
	if sb != nil {
		sb.play(sb.shake)
	}
}

func (sb *soundboard) playGameOver() {
	if sb != nil {
		sb.play(sb.gameOver)
	}
}

func (sb *soundboard) playMerge(rank int) {
	if sb != nil && rank >= 0 && rank < len(sb.merges) {
		sb.play(sb.merges[rank])
	}
}
