package main

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// chimes plays short sine blips through the speaker. A nil *chimes is silent.
type chimes struct{}

func newChimes() (*chimes, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &chimes{}, nil
}

// blip builds a quiet fixed-length tone.
func blip(freq float64, dur time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return nil, err
	}
	return &effects.Volume{
		Streamer: beep.Take(sampleRate.N(dur), sine),
		Base:     2,
		Volume:   -2,
	}, nil
}

func (c *chimes) play(freq float64, dur time.Duration) {
	if c == nil {
		return
	}
	s, err := blip(freq, dur)
	if err != nil {
		return
	}
	speaker.Play(s)
}

func (c *chimes) drop()     { c.play(520, 60*time.Millisecond) }
func (c *chimes) gameOver() { c.play(196, 600*time.Millisecond) }

func (c *chimes) merge(rank int) {
	c.play(330*math.Pow(2, float64(rank)/6), 120*time.Millisecond)
}
