package packet

import "fmt"

// Family is the second decoded byte of every packet body; it selects the
// subsystem the packet belongs to (walking, items, trade, guild, ...).
type Family byte

const (
	FamilyConnection    Family = 1
	FamilyAccount       Family = 2
	FamilyCharacter     Family = 3
	FamilyLogin         Family = 4
	FamilyWelcome       Family = 5
	FamilyWalk          Family = 6
	FamilyFace          Family = 7
	FamilyChair         Family = 8
	FamilyEmote         Family = 9
	FamilyAttack        Family = 11
	FamilySpell         Family = 12
	FamilyShop          Family = 13
	FamilyItem          Family = 14
	FamilyStatSkill     Family = 16
	FamilyGlobal        Family = 17
	FamilyTalk          Family = 18
	FamilyWarp          Family = 19
	FamilyJukebox       Family = 21
	FamilyPlayers       Family = 22
	FamilyAvatar        Family = 23
	FamilyParty         Family = 24
	FamilyRefresh       Family = 25
	FamilyNPC           Family = 26
	FamilyAppear        Family = 29
	FamilyPaperdoll     Family = 30
	FamilyEffect        Family = 31
	FamilyTrade         Family = 32
	FamilyChest         Family = 33
	FamilyDoor          Family = 34
	FamilyMessage       Family = 35
	FamilyBank          Family = 36
	FamilyLocker        Family = 37
	FamilyBarber        Family = 38
	FamilyGuild         Family = 39
	FamilyMusic         Family = 40
	FamilySit           Family = 41
	FamilyRecover       Family = 42
	FamilyBoard         Family = 43
	FamilyCast          Family = 44
	FamilyArena         Family = 45
	FamilyPriest        Family = 46
	FamilyMarriage      Family = 47
	FamilyAdminInteract Family = 48
	FamilyCitizen       Family = 49
	FamilyQuest         Family = 50
	FamilyBook          Family = 51
	FamilyInit          Family = 255
)

// Action is the first decoded byte of every packet body.
type Action byte

const (
	ActionRequest     Action = 1
	ActionAccept      Action = 2
	ActionReply       Action = 3
	ActionRemove      Action = 4
	ActionAgree       Action = 5
	ActionCreate      Action = 6
	ActionAdd         Action = 7
	ActionPlayer      Action = 8
	ActionTake        Action = 9
	ActionUse         Action = 10
	ActionBuy         Action = 11
	ActionSell        Action = 12
	ActionOpen        Action = 13
	ActionClose       Action = 14
	ActionMsg         Action = 15
	ActionSpec        Action = 16
	ActionAdmin       Action = 17
	ActionList        Action = 18
	ActionTell        Action = 19
	ActionReport      Action = 20
	ActionAnnounce    Action = 21
	ActionServer      Action = 22
	ActionDrop        Action = 23
	ActionJunk        Action = 24
	ActionGet         Action = 26
	ActionKick        Action = 27
	ActionRank        Action = 28
	ActionTargetSelf  Action = 29
	ActionTargetOther Action = 30
	ActionTargetGroup Action = 31
	ActionDialog      Action = 32
	ActionPing        Action = 240
	ActionPong        Action = 241
	ActionNet3        Action = 242
	ActionInit        Action = 255
)

var familyNames = map[Family]string{
	FamilyConnection: "Connection", FamilyAccount: "Account", FamilyCharacter: "Character",
	FamilyLogin: "Login", FamilyWelcome: "Welcome", FamilyWalk: "Walk", FamilyFace: "Face",
	FamilyChair: "Chair", FamilyEmote: "Emote", FamilyAttack: "Attack", FamilySpell: "Spell",
	FamilyShop: "Shop", FamilyItem: "Item", FamilyStatSkill: "StatSkill", FamilyGlobal: "Global",
	FamilyTalk: "Talk", FamilyWarp: "Warp", FamilyJukebox: "Jukebox", FamilyPlayers: "Players",
	FamilyAvatar: "Avatar", FamilyParty: "Party", FamilyRefresh: "Refresh", FamilyNPC: "NPC",
	FamilyAppear: "Appear", FamilyPaperdoll: "Paperdoll", FamilyEffect: "Effect",
	FamilyTrade: "Trade", FamilyChest: "Chest", FamilyDoor: "Door", FamilyMessage: "Message",
	FamilyBank: "Bank", FamilyLocker: "Locker", FamilyBarber: "Barber", FamilyGuild: "Guild",
	FamilyMusic: "Music", FamilySit: "Sit", FamilyRecover: "Recover", FamilyBoard: "Board",
	FamilyCast: "Cast", FamilyArena: "Arena", FamilyPriest: "Priest", FamilyMarriage: "Marriage",
	FamilyAdminInteract: "AdminInteract", FamilyCitizen: "Citizen", FamilyQuest: "Quest",
	FamilyBook: "Book", FamilyInit: "Init",
}

var actionNames = map[Action]string{
	ActionRequest: "Request", ActionAccept: "Accept", ActionReply: "Reply", ActionRemove: "Remove",
	ActionAgree: "Agree", ActionCreate: "Create", ActionAdd: "Add", ActionPlayer: "Player",
	ActionTake: "Take", ActionUse: "Use", ActionBuy: "Buy", ActionSell: "Sell", ActionOpen: "Open",
	ActionClose: "Close", ActionMsg: "Msg", ActionSpec: "Spec", ActionAdmin: "Admin",
	ActionList: "List", ActionTell: "Tell", ActionReport: "Report", ActionAnnounce: "Announce",
	ActionServer: "Server", ActionDrop: "Drop", ActionJunk: "Junk", ActionGet: "Get",
	ActionKick: "Kick", ActionRank: "Rank", ActionTargetSelf: "TargetSelf",
	ActionTargetOther: "TargetOther", ActionTargetGroup: "TargetGroup", ActionDialog: "Dialog",
	ActionPing: "Ping", ActionPong: "Pong", ActionNet3: "Net3", ActionInit: "Init",
}

func (f Family) String() string {
	if n, ok := familyNames[f]; ok {
		return n
	}
	return fmt.Sprintf("Family(%d)", byte(f))
}

func (a Action) String() string {
	if n, ok := actionNames[a]; ok {
		return n
	}
	return fmt.Sprintf("Action(%d)", byte(a))
}

// KnownFamily reports whether f is part of the closed protocol enumeration.
func KnownFamily(f Family) bool {
	_, ok := familyNames[f]
	return ok
}

// KnownAction reports whether a is part of the closed protocol enumeration.
func KnownAction(a Action) bool {
	_, ok := actionNames[a]
	return ok
}
