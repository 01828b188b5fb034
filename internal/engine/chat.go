package engine

// Bot chatter. Each personality has its own phrase table per trigger; lines
// surface as chat events for the client to draw as bubbles over the king.

const chatCooldownMs = 6000

type chatTrigger int

const (
	chatKill chatTrigger = iota
	chatKingKill
	chatPanic
	chatAllianceFormed
	chatAllianceRejected
	chatWarDeclared
	chatTriggerCount
)

var chatLines = [personalityCount][chatTriggerCount][]string{
	Aggressor: {
		chatKill:             {"Next!", "Too slow.", "Who else wants some?"},
		chatKingKill:         {"CROWN TAKEN.", "Another throne empty."},
		chatPanic:            {"Not like this!", "Regroup, REGROUP!"},
		chatAllianceFormed:   {"Fine. Don't slow me down."},
		chatAllianceRejected: {"I hunt alone.", "Hard pass."},
		chatWarDeclared:      {"Finally. WAR.", "You're first on my list."},
	},
	Turtle: {
		chatKill:             {"You came to ME.", "The wall holds."},
		chatKingKill:         {"Patience pays."},
		chatPanic:            {"Breach! BREACH!", "Fall back to the king!"},
		chatAllianceFormed:   {"Safety in numbers, friend.", "Together we endure."},
		chatAllianceRejected: {"I don't trust you. Yet."},
		chatWarDeclared:      {"You forced my hand."},
	},
	Opportunist: {
		chatKill:             {"Free material, thank you.", "You were already losing."},
		chatKingKill:         {"Right place, right time."},
		chatPanic:            {"This trade is terrible!"},
		chatAllianceFormed:   {"Mutually beneficial. For now."},
		chatAllianceRejected: {"What's in it for me? Nothing."},
		chatWarDeclared:      {"Nothing personal. You're just weak."},
	},
	Raider: {
		chatKill:             {"Smash and grab!", "Loot's mine."},
		chatKingKill:         {"King's ransom!"},
		chatPanic:            {"Scatter!"},
		chatAllianceFormed:   {"Split the loot evenly. Mostly."},
		chatAllianceRejected: {"You'd slow the raid."},
		chatWarDeclared:      {"Your vaults are my vaults now."},
	},
}

// speak emits a chat line for the given trigger if the player's chat
// cooldown has elapsed. Lines anchor to the live king; a kingless player has
// nobody left to talk through.
func (e *Engine) speak(id PlayerID, trigger chatTrigger) {
	p := e.store.Player(id)
	if p == nil || p.NPC || p.Eliminated {
		return
	}
	now := e.clock.Now()
	if now-p.LastChat < chatCooldownMs {
		return
	}
	lines := chatLines[p.Personality][trigger]
	if len(lines) == 0 {
		return
	}
	king := e.store.LiveKing(id)
	if king == nil {
		return
	}
	p.LastChat = now
	e.emit(Event{
		Type:  EventChat,
		Pos:   king.Pos,
		Actor: id,
		Text:  lines[e.rng.Intn(len(lines))],
	})
}
