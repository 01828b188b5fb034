package engine

// KillerSnapshot records who last killed a human-owned unit, for end-of-match
// attribution.
type KillerSnapshot struct {
	Killer   PlayerID
	Name     string
	UnitType UnitType
	Time     VirtualTime
}

// moveUnit executes a validated move/attack for u onto dst at virtual time
// now, and reports whether the action was carried out: false only when the
// destination holds a friendly unit or the mode forbids the attack. It
// resolves stale index entries, delegates attack permission and death
// interception to the active mode, applies rewards and elimination cascades,
// relocates the mover when the destination ends up vacant, and collects any
// coin there.
func (e *Engine) moveUnit(u *Unit, dst GridPos, now VirtualTime) bool {
	occ := e.store.UnitAt(dst) // repairs stale entries inline

	if occ != nil {
		if occ.Owner == u.Owner {
			return false
		}
		if !e.mode.CanAttack(u, occ, e) {
			return false
		}
		e.emit(Event{Type: EventAttack, Pos: dst, Actor: u.Owner, Victim: occ.Owner, Unit: u.ID})
		e.noteCombat(u.Owner, occ.Owner, now)

		if e.mode.HandleDeath(occ, u, e) {
			// Mode intercepted the death (e.g. zombie conversion). No loot,
			// no relocation: the destination is still occupied.
			e.stampMove(u, now)
			return true
		}
		e.resolveKill(occ, u, now)
	}

	if e.store.UnitAt(dst) == nil {
		e.store.MoveUnit(u, dst)
		if c := e.store.TakeCoin(dst); c != nil {
			e.creditCoins(u.Owner, c.Value, now)
			e.emit(Event{Type: EventCoinPickup, Pos: dst, Actor: u.Owner, Unit: u.ID})
		}
	}

	e.stampMove(u, now)
	return true
}

// stampMove records the move cooldown timestamp, plus the separate AI action
// stamp for bot owners.
func (e *Engine) stampMove(u *Unit, now VirtualTime) {
	u.LastMoveTime = now
	if p := e.store.Player(u.Owner); p != nil && !p.Human && !p.NPC {
		p.LastAIAction = now
	}
}

// noteCombat refreshes the human combat-idleness timer when the human agent
// is on either side of an attack.
func (e *Engine) noteCombat(a, b PlayerID, now VirtualTime) {
	if a == e.humanID || b == e.humanID {
		e.humanLastCombat = now
	}
}

// scatterCoins sprays a cracked vault's leftovers onto free neighbouring
// tiles. Whoever walks there first collects.
func (e *Engine) scatterCoins(center GridPos) {
	dropped := 0
	for _, off := range kingOffsets {
		if dropped >= e.bal.Economy.CoinScatter {
			break
		}
		pos := GridPos{center.X + off[0], center.Y + off[1]}
		if !e.onBoard(pos) || e.terrain.IsBlocking(pos.X, pos.Y) {
			continue
		}
		if e.store.UnitAt(pos) != nil || e.store.CoinAt(pos) != nil {
			continue
		}
		e.store.DropCoin(pos, e.bal.Economy.CoinValue)
		dropped++
	}
}

// creditCoins adds picked-up coin value to a player's economy.
func (e *Engine) creditCoins(id PlayerID, value int, now VirtualTime) {
	p := e.store.Player(id)
	if p == nil {
		return
	}
	p.Credits += value
	p.TotalCollected += value
	_ = now
}

// resolveKill applies the standard lethal-hit outcome: the victim dies, the
// attacker's owner is paid in material score and credits, and king kills
// cascade into full elimination of the victim's roster.
func (e *Engine) resolveKill(victim, attacker *Unit, now VirtualTime) {
	victimOwner := e.store.Player(victim.Owner)
	attackOwner := e.store.Player(attacker.Owner)

	e.store.KillUnit(victim)
	e.emit(Event{Type: EventDeath, Pos: victim.Pos, Actor: attacker.Owner, Victim: victim.Owner, Unit: victim.ID})

	value := victim.Type.MaterialValue()
	if attackOwner != nil {
		attackOwner.Kills++
		e.addMaterial(attackOwner, value, now)
		attackOwner.Credits += value * e.bal.Economy.CreditPerMaterial
	}
	if victimOwner != nil {
		e.addMaterial(victimOwner, -value, now)
	}
	if attackOwner != nil && value >= 3 && victim.Type != King {
		e.speak(attackOwner.ID, chatKill)
	}

	switch victim.Type {
	case King:
		if attackOwner != nil {
			attackOwner.KingsKilled++
			attackOwner.Credits += e.bal.Economy.KingBounty
			e.speak(attackOwner.ID, chatKingKill)
		}
		e.cascadeElimination(victimOwner, attacker.Owner, now)
	case Vault:
		if attackOwner != nil {
			attackOwner.Credits += e.bal.Economy.VaultBounty
		}
		e.scatterCoins(victim.Pos)
	}

	if victimOwner != nil && victimOwner.Human {
		e.lastKiller = &KillerSnapshot{
			Killer:   attacker.Owner,
			Name:     playerName(attackOwner),
			UnitType: attacker.Type,
			Time:     now,
		}
	}
}

// cascadeElimination kills the remainder of a player's roster and flags the
// player eliminated. The king kill that triggered the cascade has already
// been resolved.
func (e *Engine) cascadeElimination(victim *Player, killer PlayerID, now VirtualTime) {
	if victim == nil || victim.Eliminated {
		return
	}
	for _, uid := range victim.Units {
		u := e.store.Unit(uid)
		// Converted units belong to the horde now and ride out the cascade.
		if u == nil || u.Dead || u.Owner != victim.ID {
			continue
		}
		e.store.KillUnit(u)
		e.emit(Event{Type: EventDeath, Pos: u.Pos, Actor: killer, Victim: victim.ID, Unit: u.ID})
	}
	victim.Eliminated = true
	victim.Material = 0
	victim.ScoreStamp = now
	if e.log != nil {
		e.log.Info("agent eliminated", "player", victim.Name, "by", killer, "t", float64(now))
	}
	e.mode.HandleElimination(victim, e)
}

// addMaterial adjusts a player's material score, clamping at zero and keeping
// the peak high-water mark and tie-break timestamp current.
func (e *Engine) addMaterial(p *Player, delta int, now VirtualTime) {
	if delta == 0 {
		return
	}
	p.Material += delta
	if p.Material < 0 {
		p.Material = 0
	}
	if p.Material > p.PeakMaterial {
		p.PeakMaterial = p.Material
	}
	p.ScoreStamp = now
}

func playerName(p *Player) string {
	if p == nil {
		return "?"
	}
	return p.Name
}
