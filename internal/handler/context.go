package handler

import (
	"github.com/eogo/server/internal/config"
	"github.com/eogo/server/internal/data"
	"github.com/eogo/server/internal/net/packet"
	"github.com/eogo/server/internal/persist"
	"github.com/eogo/server/internal/player"
	"github.com/eogo/server/internal/world"
	"go.uber.org/zap"
)

// Deps holds shared dependencies injected into all packet handlers.
type Deps struct {
	Config      *config.Config
	Log         *zap.Logger
	World       *world.World
	AccountRepo *persist.AccountRepo
	CharRepo    *persist.CharacterRepo
	BanRepo     *persist.BanRepo
	GuildRepo   *persist.GuildRepo
	Items       *data.ItemTable
	Classes     *data.ClassTable
	Maps        *data.MapTable
	News        []string
}

// onMap posts fn to the player's current map actor, if any.
func onMap(p *player.Player, fn func(m *world.Map)) {
	if m := p.World.Map(p.MapID); m != nil {
		m.Do(fn)
	}
}

// RegisterAll registers all packet handlers into the registry.
func RegisterAll(reg *packet.Registry, deps *Deps) {
	type h = func(*player.Player, *packet.Reader, *Deps)
	bind := func(family packet.Family, action packet.Action, states []packet.SessionState, fn h) {
		reg.Register(family, action, states, func(sess any, r *packet.Reader) {
			fn(sess.(*player.Player), r, deps)
		})
	}

	// Handshake phase
	bind(packet.FamilyInit, packet.ActionInit,
		[]packet.SessionState{packet.StateUninitialized}, HandleInit)
	bind(packet.FamilyConnection, packet.ActionAccept,
		[]packet.SessionState{packet.StateInitialized}, HandleConnectionAccept)
	bind(packet.FamilyConnection, packet.ActionPing,
		[]packet.SessionState{
			packet.StateInitialized, packet.StateAccepted, packet.StateLoggedIn,
			packet.StateSelected, packet.StateInGame,
		}, HandleConnectionPing)

	// Login screen
	loginStates := []packet.SessionState{packet.StateAccepted}
	bind(packet.FamilyLogin, packet.ActionRequest, loginStates, HandleLoginRequest)
	bind(packet.FamilyAccount, packet.ActionRequest, loginStates, HandleAccountRequest)
	bind(packet.FamilyAccount, packet.ActionCreate, loginStates, HandleAccountCreate)

	// Character select screen
	selectStates := []packet.SessionState{packet.StateLoggedIn}
	bind(packet.FamilyCharacter, packet.ActionRequest, selectStates, HandleCharacterRequest)
	bind(packet.FamilyCharacter, packet.ActionCreate, selectStates, HandleCharacterCreate)
	bind(packet.FamilyCharacter, packet.ActionTake, selectStates, HandleCharacterTake)
	bind(packet.FamilyCharacter, packet.ActionRemove, selectStates, HandleCharacterRemove)
	bind(packet.FamilyWelcome, packet.ActionRequest, selectStates, HandleWelcomeRequest)

	// World loading
	loadStates := []packet.SessionState{packet.StateSelected}
	bind(packet.FamilyWelcome, packet.ActionAgree, loadStates, HandleWelcomeAgree)
	bind(packet.FamilyWelcome, packet.ActionMsg, loadStates, HandleWelcomeMsg)

	// In game
	game := []packet.SessionState{packet.StateInGame}

	// The client varies the walk action by admin and ghost state; all three
	// resolve identically on the server.
	bind(packet.FamilyWalk, packet.ActionPlayer, game, HandleWalk)
	bind(packet.FamilyWalk, packet.ActionSpec, game, HandleWalk)
	bind(packet.FamilyWalk, packet.ActionAdmin, game, HandleWalk)
	bind(packet.FamilyFace, packet.ActionPlayer, game, HandleFace)
	bind(packet.FamilySit, packet.ActionRequest, game, HandleSit)
	bind(packet.FamilyChair, packet.ActionRequest, game, HandleChair)
	bind(packet.FamilyRefresh, packet.ActionRequest, game, HandleRefresh)
	bind(packet.FamilyDoor, packet.ActionOpen, game, HandleDoorOpen)
	bind(packet.FamilyEmote, packet.ActionReport, game, HandleEmote)

	bind(packet.FamilyAttack, packet.ActionUse, game, HandleAttack)
	bind(packet.FamilySpell, packet.ActionRequest, game, HandleSpellRequest)
	bind(packet.FamilySpell, packet.ActionTargetSelf, game, HandleSpellTargetSelf)
	bind(packet.FamilySpell, packet.ActionTargetOther, game, HandleSpellTargetOther)
	bind(packet.FamilySpell, packet.ActionTargetGroup, game, HandleSpellTargetGroup)

	bind(packet.FamilyItem, packet.ActionUse, game, HandleItemUse)
	bind(packet.FamilyItem, packet.ActionDrop, game, HandleItemDrop)
	bind(packet.FamilyItem, packet.ActionGet, game, HandleItemGet)
	bind(packet.FamilyItem, packet.ActionJunk, game, HandleItemJunk)
	bind(packet.FamilyPaperdoll, packet.ActionAdd, game, HandlePaperdollAdd)
	bind(packet.FamilyPaperdoll, packet.ActionRemove, game, HandlePaperdollRemove)
	bind(packet.FamilyPaperdoll, packet.ActionRequest, game, HandlePaperdollRequest)

	bind(packet.FamilyChest, packet.ActionOpen, game, HandleChestOpen)
	bind(packet.FamilyChest, packet.ActionAdd, game, HandleChestAdd)
	bind(packet.FamilyChest, packet.ActionTake, game, HandleChestTake)
	bind(packet.FamilyBank, packet.ActionOpen, game, HandleBankOpen)
	bind(packet.FamilyBank, packet.ActionAdd, game, HandleBankAdd)
	bind(packet.FamilyBank, packet.ActionTake, game, HandleBankTake)
	bind(packet.FamilyLocker, packet.ActionOpen, game, HandleLockerOpen)
	bind(packet.FamilyLocker, packet.ActionAdd, game, HandleLockerAdd)
	bind(packet.FamilyLocker, packet.ActionTake, game, HandleLockerTake)
	bind(packet.FamilyLocker, packet.ActionBuy, game, HandleLockerBuy)

	bind(packet.FamilyShop, packet.ActionOpen, game, HandleShopOpen)
	bind(packet.FamilyShop, packet.ActionBuy, game, HandleShopBuy)
	bind(packet.FamilyShop, packet.ActionSell, game, HandleShopSell)
	bind(packet.FamilyShop, packet.ActionCreate, game, HandleShopCraft)

	bind(packet.FamilyTrade, packet.ActionRequest, game, HandleTradeRequest)
	bind(packet.FamilyTrade, packet.ActionAccept, game, HandleTradeAccept)
	bind(packet.FamilyTrade, packet.ActionAdd, game, HandleTradeAdd)
	bind(packet.FamilyTrade, packet.ActionRemove, game, HandleTradeRemove)
	bind(packet.FamilyTrade, packet.ActionAgree, game, HandleTradeAgree)
	bind(packet.FamilyTrade, packet.ActionClose, game, HandleTradeClose)

	bind(packet.FamilyStatSkill, packet.ActionOpen, game, HandleStatSkillOpen)
	bind(packet.FamilyStatSkill, packet.ActionAdd, game, HandleStatSkillAdd)
	bind(packet.FamilyStatSkill, packet.ActionTake, game, HandleStatSkillTake)
	bind(packet.FamilyStatSkill, packet.ActionRemove, game, HandleStatSkillRemove)
	bind(packet.FamilyStatSkill, packet.ActionJunk, game, HandleStatSkillJunk)

	bind(packet.FamilyTalk, packet.ActionReport, game, HandleTalkReport)
	bind(packet.FamilyTalk, packet.ActionMsg, game, HandleTalkMsg)
	bind(packet.FamilyTalk, packet.ActionTell, game, HandleTalkTell)
	bind(packet.FamilyTalk, packet.ActionOpen, game, HandleTalkOpen)
	bind(packet.FamilyTalk, packet.ActionAnnounce, game, HandleTalkAnnounce)
	bind(packet.FamilyTalk, packet.ActionAdmin, game, HandleTalkAdmin)

	bind(packet.FamilyParty, packet.ActionRequest, game, HandlePartyRequest)
	bind(packet.FamilyParty, packet.ActionAccept, game, HandlePartyAccept)
	bind(packet.FamilyParty, packet.ActionRemove, game, HandlePartyRemove)
	bind(packet.FamilyParty, packet.ActionTake, game, HandlePartyTake)

	bind(packet.FamilyGuild, packet.ActionOpen, game, HandleGuildOpen)
	bind(packet.FamilyGuild, packet.ActionRequest, game, HandleGuildRequest)
	bind(packet.FamilyGuild, packet.ActionAccept, game, HandleGuildAccept)
	bind(packet.FamilyGuild, packet.ActionAgree, game, HandleGuildAgree)
	bind(packet.FamilyGuild, packet.ActionCreate, game, HandleGuildCreate)
	bind(packet.FamilyGuild, packet.ActionBuy, game, HandleGuildBuy)
	bind(packet.FamilyGuild, packet.ActionRemove, game, HandleGuildRemove)
	bind(packet.FamilyGuild, packet.ActionKick, game, HandleGuildKick)
	bind(packet.FamilyGuild, packet.ActionTell, game, HandleGuildTell)

	bind(packet.FamilyBoard, packet.ActionOpen, game, HandleBoardOpen)
	bind(packet.FamilyBoard, packet.ActionTake, game, HandleBoardTake)
	bind(packet.FamilyBoard, packet.ActionCreate, game, HandleBoardCreate)
	bind(packet.FamilyBoard, packet.ActionRemove, game, HandleBoardRemove)

	bind(packet.FamilyCitizen, packet.ActionOpen, game, HandleCitizenOpen)
	bind(packet.FamilyCitizen, packet.ActionReply, game, HandleCitizenReply)
	bind(packet.FamilyCitizen, packet.ActionRemove, game, HandleCitizenRemove)
	bind(packet.FamilyCitizen, packet.ActionRequest, game, HandleCitizenRequest)
	bind(packet.FamilyCitizen, packet.ActionAccept, game, HandleCitizenAccept)

	bind(packet.FamilyPriest, packet.ActionOpen, game, HandlePriestOpen)
	bind(packet.FamilyPriest, packet.ActionRequest, game, HandlePriestRequest)
	bind(packet.FamilyPriest, packet.ActionAccept, game, HandlePriestAccept)
	bind(packet.FamilyPriest, packet.ActionUse, game, HandlePriestUse)
	bind(packet.FamilyMarriage, packet.ActionRequest, game, HandleMarriageRequest)

	bind(packet.FamilyJukebox, packet.ActionOpen, game, HandleJukeboxOpen)
	bind(packet.FamilyJukebox, packet.ActionMsg, game, HandleJukeboxMsg)
	bind(packet.FamilyJukebox, packet.ActionUse, game, HandleJukeboxUse)
	bind(packet.FamilyBarber, packet.ActionOpen, game, HandleBarberOpen)
	bind(packet.FamilyBarber, packet.ActionBuy, game, HandleBarberBuy)
	bind(packet.FamilyMessage, packet.ActionOpen, game, HandleSignOpen)

	bind(packet.FamilyQuest, packet.ActionUse, game, HandleQuestUse)
	bind(packet.FamilyQuest, packet.ActionAccept, game, HandleQuestAccept)
	bind(packet.FamilyQuest, packet.ActionList, game, HandleQuestList)
	bind(packet.FamilyBook, packet.ActionRequest, game, HandleBookRequest)

	bind(packet.FamilyWarp, packet.ActionAccept, game, HandleWarpAccept)
	bind(packet.FamilyWarp, packet.ActionTake, game, HandleWarpTake)

	bind(packet.FamilyPlayers, packet.ActionRequest, game, HandlePlayersRequest)
	bind(packet.FamilyPlayers, packet.ActionList, game, HandlePlayersRequest)
	bind(packet.FamilyPlayers, packet.ActionAccept, game, HandlePlayersAccept)

	bind(packet.FamilyAdminInteract, packet.ActionTell, game, HandleAdminInteractTell)
	bind(packet.FamilyAdminInteract, packet.ActionReport, game, HandleAdminInteractReport)
	bind(packet.FamilyAdminInteract, packet.ActionList, game, HandleAdminInteractList)
	bind(packet.FamilyAdminInteract, packet.ActionKick, game, HandleAdminInteractKick)

	// The global-chat tab sends open and close notices that need no reply.
	bind(packet.FamilyGlobal, packet.ActionOpen, game,
		func(*player.Player, *packet.Reader, *Deps) {})
	bind(packet.FamilyGlobal, packet.ActionClose, game,
		func(*player.Player, *packet.Reader, *Deps) {})
}
