package sim

import (
	"fmt"
	"time"
)

// WaveQuota is the number of enemies released in wave w (1-based).
func WaveQuota(w int) int { return 3 + w*2 }

// WaveSpawner releases enemies in numbered waves. A wave opens once the
// previous one is fully spawned and every enemy from it is dead.
type WaveSpawner struct {
	Wave    int           // current wave, 0 before the first opens
	ToSpawn int           // enemies of this wave not yet released
	timer   time.Duration // time until the next release attempt
}

// NextSpawn returns the time until the next release attempt.
func (ws *WaveSpawner) NextSpawn() time.Duration { return ws.timer }

// Update advances the spawner by dt.
func (ws *WaveSpawner) Update(s *Session, dt time.Duration) {
	tu := s.Tuning
	if ws.ToSpawn > 0 {
		ws.timer -= dt
		if ws.timer > 0 {
			return
		}
		if s.spawnEnemy(ws.Wave) {
			ws.ToSpawn--
			ws.timer = tu.SpawnInterval
		} else {
			// Every spawn point is blocked; try again next tick.
			ws.timer = 0
		}
		return
	}

	if s.liveEnemies() > 0 {
		return
	}
	ws.Wave++
	ws.ToSpawn = WaveQuota(ws.Wave)
	ws.timer = tu.WaveStartDelay
	s.stats.Waves = ws.Wave
	s.record(Event{
		Kind:   EventWaveStarted,
		Value:  float64(ws.Wave),
		Detail: fmt.Sprintf("wave=%d quota=%d", ws.Wave, ws.ToSpawn),
	})
}

// spawnPoints are the top-edge release positions: left, centre, right.
func spawnPoints(tu Tuning) [3][2]float64 {
	w := tu.ArenaWidth()
	y := tu.TileSize
	return [3][2]float64{
		{tu.TileSize, y},
		{w/2 - tu.TileSize/2, y},
		{w - 2*tu.TileSize, y},
	}
}

// enemyVariant draws a variant from the pool unlocked by wave w.
func enemyVariant(rng Rand, w int) Variant {
	n := w
	if n > len(enemyPool) {
		n = len(enemyPool)
	}
	if n < 1 {
		n = 1
	}
	return enemyPool[rng.Intn(n)]
}
