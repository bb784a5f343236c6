// Package app はプール識別子・リリース識別子とカオスフラグを保持します。
package app

import (
	"errors"
	"sync/atomic"
)

// ErrSimulated はカオスモード中に /version が返すエラーです。
var ErrSimulated = errors.New("simulated error")

// Identity はこのプロセスが名乗るプールとリリースを表します。
type Identity struct {
	Pool    string `json:"pool"`
	Release string `json:"release"`
}

// State はプロセス全体で共有される状態です。
// Identity は起動後に変更されません。
type State struct {
	id    Identity
	chaos atomic.Bool
}

// New は新しい State を作成します。カオスフラグは false で始まります。
func New(id Identity) *State {
	return &State{id: id}
}

// Identity は保持している Identity を返します。
func (s *State) Identity() Identity { return s.id }

// Chaos はカオスフラグの現在値を返します。
// 並行するトグルとの順序は保証されません。
func (s *State) Chaos() bool { return s.chaos.Load() }

// ChaosOn はカオスフラグを立てます。
func (s *State) ChaosOn() { s.chaos.Store(true) }

// ChaosOff はカオスフラグを下ろします。
func (s *State) ChaosOff() { s.chaos.Store(false) }
