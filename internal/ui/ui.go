// Package ui is the ebiten presentation layer. It owns nothing but pixels
// and input: every rule lives behind the engine's command/query surface, so
// the client draws whatever the store says and forwards clicks as orders.
package ui

import (
	"fmt"
	"image/color"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/chess-royale/internal/engine"
)

const (
	tileSize   = 12
	sidePanelW = 220
	bubbleMs   = 4000 // how long chat bubbles and kill flashes linger
)

var unitGlyphs = map[engine.UnitType]string{
	engine.Pawn:   "p",
	engine.Knight: "N",
	engine.Bishop: "B",
	engine.Rook:   "R",
	engine.Queen:  "Q",
	engine.King:   "K",
	engine.Vault:  "$",
}

var tileColors = map[engine.TileType]color.RGBA{
	engine.TileGrass:  {R: 46, G: 64, B: 42, A: 255},
	engine.TileWall:   {R: 70, G: 70, B: 74, A: 255},
	engine.TileForest: {R: 30, G: 52, B: 32, A: 255},
	engine.TileWater:  {R: 34, G: 50, B: 86, A: 255},
	engine.TileSand:   {R: 96, G: 88, B: 58, A: 255},
	engine.TileSnow:   {R: 92, G: 96, B: 102, A: 255},
}

// bubble is a transient floating text anchored to a board tile.
type bubble struct {
	pos     engine.GridPos
	text    string
	expires engine.VirtualTime
}

// Client drives one match on screen.
type Client struct {
	eng *engine.Engine

	selected engine.UnitID
	moves    []engine.GridPos
	bubbles  []bubble
	flash    string // status line, e.g. "report copied"
	flashEnd engine.VirtualTime

	buyType engine.UnitType
}

// NewClient wraps a running engine for presentation.
func NewClient(eng *engine.Engine) *Client {
	return &Client{
		eng:      eng,
		selected: engine.NoUnit,
		buyType:  engine.Pawn,
	}
}

func (c *Client) Update() error {
	c.eng.Tick(1000.0 / float64(ebiten.TPS()))
	c.consumeEvents()
	c.handleKeys()
	c.handleMouse()
	c.expireBubbles()
	return nil
}

func (c *Client) consumeEvents() {
	now := c.eng.Now()
	for _, ev := range c.eng.ConsumeEvents() {
		switch ev.Type {
		case engine.EventChat:
			c.bubbles = append(c.bubbles, bubble{ev.Pos, ev.Text, now + bubbleMs})
		case engine.EventAlliance:
			c.bubbles = append(c.bubbles, bubble{ev.Pos, "ALLIANCE", now + bubbleMs})
		case engine.EventWar:
			c.bubbles = append(c.bubbles, bubble{ev.Pos, "WAR!", now + bubbleMs})
		case engine.EventVaultSpawn:
			c.bubbles = append(c.bubbles, bubble{ev.Pos, "vault", now + bubbleMs})
		case engine.EventConversion:
			c.bubbles = append(c.bubbles, bubble{ev.Pos, "turned...", now + bubbleMs})
		}
	}
}

func (c *Client) handleKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		c.eng.SetPaused(!c.eng.Paused())
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual):
		c.eng.SetTimeScale(c.eng.TimeScale() * 2)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus):
		c.eng.SetTimeScale(c.eng.TimeScale() / 2)
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		c.eng.SetSimulate(true)
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		c.selected = engine.NoUnit
		c.moves = nil
	case inpututil.IsKeyJustPressed(ebiten.KeyA):
		if c.eng.ProposeAlliance() {
			c.setFlash("alliance formed")
		} else {
			c.setFlash("no takers")
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyW):
		if c.eng.DeclareWarNearest() {
			c.setFlash("war declared")
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyF9):
		c.copyReport()
	}
	for i, key := range []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5} {
		if inpututil.IsKeyJustPressed(key) {
			c.buyType = []engine.UnitType{engine.Pawn, engine.Knight, engine.Bishop, engine.Rook, engine.Queen}[i]
		}
	}
}

// copyReport puts the full debug report on the system clipboard so a bug
// ticket is one paste away.
func (c *Client) copyReport() {
	report := c.eng.DebugReport(c.selected)
	if err := clipboard.WriteAll(report); err != nil {
		c.setFlash("clipboard error: " + err.Error())
		return
	}
	c.setFlash("debug report copied")
}

func (c *Client) setFlash(s string) {
	c.flash = s
	c.flashEnd = c.eng.Now() + bubbleMs
}

func (c *Client) handleMouse() {
	left := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	right := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)
	if !left && !right {
		return
	}
	mx, my := ebiten.CursorPosition()
	pos := engine.GridPos{X: mx / tileSize, Y: my / tileSize}
	if pos.X < 0 || pos.X >= c.eng.Width() || pos.Y < 0 || pos.Y >= c.eng.Height() {
		return
	}
	human := c.eng.HumanID()

	if right {
		// Right click buys (or paints, in sandbox) the armed unit type.
		if c.eng.ModeTag() == engine.ModeSandbox {
			if !c.eng.PaintUnit(human, c.buyType, pos) {
				c.eng.EraseUnit(pos)
			}
		} else if c.eng.BuyUnit(human, c.buyType, pos) {
			c.setFlash(fmt.Sprintf("bought %s", c.buyType))
		}
		return
	}

	if u := c.eng.Store().UnitAt(pos); u != nil && u.Owner == human {
		c.selected = u.ID
		c.moves = c.eng.ValidMoves(u, c.eng.Now(), true)
		return
	}
	if c.selected != engine.NoUnit {
		if c.eng.IssueMove(human, c.selected, pos) {
			c.selected = engine.NoUnit
			c.moves = nil
		}
	}
}

func (c *Client) expireBubbles() {
	now := c.eng.Now()
	kept := c.bubbles[:0]
	for _, b := range c.bubbles {
		if b.expires > now {
			kept = append(kept, b)
		}
	}
	c.bubbles = kept
}

func (c *Client) Draw(screen *ebiten.Image) {
	c.drawTerrain(screen)
	c.drawMoves(screen)
	c.drawUnits(screen)
	c.drawBubbles(screen)
	c.drawPanel(screen)
}

func (c *Client) drawTerrain(screen *ebiten.Image) {
	terrain := c.eng.Terrain()
	for y := 0; y < c.eng.Height(); y++ {
		for x := 0; x < c.eng.Width(); x++ {
			tile, ok := terrain[engine.GridPos{X: x, Y: y}]
			col := tileColors[engine.TileGrass]
			if ok {
				col = tileColors[tile.Type]
			}
			vector.FillRect(screen, float32(x*tileSize), float32(y*tileSize), tileSize, tileSize, col, false)
		}
	}
}

func (c *Client) drawMoves(screen *ebiten.Image) {
	for _, mv := range c.moves {
		vector.StrokeRect(screen,
			float32(mv.X*tileSize)+1, float32(mv.Y*tileSize)+1,
			tileSize-2, tileSize-2, 1.5,
			color.RGBA{R: 240, G: 230, B: 120, A: 200}, false)
	}
}

func (c *Client) drawUnits(screen *ebiten.Image) {
	human := c.eng.HumanID()
	for _, u := range c.eng.Store().Units() {
		if u.Dead {
			continue
		}
		px, py := float32(u.Pos.X*tileSize), float32(u.Pos.Y*tileSize)
		col := color.RGBA{R: 150, G: 150, B: 150, A: 255}
		switch {
		case u.Zombie:
			col = color.RGBA{R: 106, G: 143, B: 95, A: 255}
		case u.Owner == human:
			col = color.RGBA{R: 220, G: 220, B: 230, A: 255}
		case u.Type == engine.Vault:
			col = color.RGBA{R: 212, G: 180, B: 90, A: 255}
		default:
			col = color.RGBA{R: 200, G: 110, B: 110, A: 255}
		}
		vector.FillRect(screen, px+2, py+2, tileSize-4, tileSize-4, col, false)
		if u.ID == c.selected {
			vector.StrokeRect(screen, px, py, tileSize, tileSize, 2.0,
				color.RGBA{R: 250, G: 250, B: 160, A: 255}, false)
		}
		ebitenutil.DebugPrintAt(screen, unitGlyphs[u.Type], u.Pos.X*tileSize+2, u.Pos.Y*tileSize-2)
	}
}

func (c *Client) drawBubbles(screen *ebiten.Image) {
	for _, b := range c.bubbles {
		ebitenutil.DebugPrintAt(screen, b.text, b.pos.X*tileSize-8, b.pos.Y*tileSize-14)
	}
}

func (c *Client) drawPanel(screen *ebiten.Image) {
	ox := c.eng.Width() * tileSize
	vector.FillRect(screen, float32(ox), 0, sidePanelW, float32(c.eng.Height()*tileSize),
		color.RGBA{R: 22, G: 24, B: 26, A: 255}, false)

	y := 8
	for _, h := range c.eng.HUD() {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s: %s", h.Label, h.Value), ox+8, y)
		y += 14
	}
	y += 8
	for i, row := range c.eng.Leaderboard() {
		mark := "  "
		if row.Human {
			mark = "> "
		} else if row.Allied {
			mark = "+ "
		}
		ebitenutil.DebugPrintAt(screen,
			fmt.Sprintf("%s%-12s %3d %2dk", mark, row.Name, row.Material, row.Kills),
			ox+8, y+i*14)
	}
	y += 14*len(c.eng.Leaderboard()) + 12
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("buy [1-5]: %s", c.buyType), ox+8, y)
	y += 14
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("speed: %.2gx%s", c.eng.TimeScale(), pausedTag(c.eng)), ox+8, y)
	y += 14
	if c.eng.ModeTag() == engine.ModeDiplomacy {
		ebitenutil.DebugPrintAt(screen, "[a]lly nearest  [w]ar nearest", ox+8, y)
		y += 14
	}

	if over := c.eng.GameOver(); over != nil {
		msg := "DRAW"
		switch {
		case over.HordeWin:
			msg = "THE HORDE PREVAILS"
		case over.WinnerName != "":
			msg = over.WinnerName + " WINS"
		}
		ebitenutil.DebugPrintAt(screen, msg, ox+8, y)
		if over.LastKiller != nil {
			y += 14
			ebitenutil.DebugPrintAt(screen,
				fmt.Sprintf("slain by %s (%s)", over.LastKiller.Name, over.LastKiller.UnitType), ox+8, y)
		}
		y += 14
	}
	if c.flash != "" && c.flashEnd > c.eng.Now() {
		ebitenutil.DebugPrintAt(screen, c.flash, ox+8, y+8)
	}
}

func pausedTag(e *engine.Engine) string {
	if e.Paused() {
		return " [paused]"
	}
	return ""
}

func (c *Client) Layout(_, _ int) (int, int) {
	return c.eng.Width()*tileSize + sidePanelW, c.eng.Height() * tileSize
}
