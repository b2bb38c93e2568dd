package murmur

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// Overlay returns a short status string for debug display: actual FPS/TPS
// and the sim's phase counts. Demos draw it with ebitenutil.DebugPrint.
func Overlay(s *Sim) string {
	st := s.collectStats()
	return fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nforming %d  flocking %d  revealing %d  arrived %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(),
		st.forming, st.flocking, st.revealing, st.atTarget)
}
