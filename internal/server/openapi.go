package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/wikihop/wikihop/internal/party"
	"github.com/wikihop/wikihop/internal/wiki"
	"github.com/wikihop/wikihop/internal/wikihop"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "WikiHop API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the WikiHop navigation game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /ws/echo
	getWSEcho, _ := r.NewOperationContext(http.MethodGet, "/ws/echo")
	getWSEcho.SetSummary("WebSocket echo")
	getWSEcho.SetDescription("Upgrades to a WebSocket connection that echoes messages back.")
	getWSEcho.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWSEcho)

	// GET /api/langs
	getLangs, _ := r.NewOperationContext(http.MethodGet, "/api/langs")
	getLangs.SetSummary("List languages")
	getLangs.SetDescription("Returns the supported wiki languages.")
	getLangs.AddRespStructure([]wiki.Lang{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getLangs)

	// GET /api/modes
	getModes, _ := r.NewOperationContext(http.MethodGet, "/api/modes")
	getModes.SetSummary("List gamemodes")
	getModes.SetDescription("Returns gamemode metadata, optionally filtered with ?type=single or ?type=multi.")
	getModes.AddRespStructure([]wikihop.ModeInfo{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getModes)

	// GET /api/wiki/preview
	getPreview, _ := r.NewOperationContext(http.MethodGet, "/api/wiki/preview")
	getPreview.SetSummary("Article preview")
	getPreview.SetDescription("Returns the intro extract of an article. Query parameters: title, lang.")
	getPreview.AddRespStructure(PreviewResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getPreview.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	_ = r.AddOperation(getPreview)

	// POST /api/auth/register
	postRegister, _ := r.NewOperationContext(http.MethodPost, "/api/auth/register")
	postRegister.SetSummary("Register")
	postRegister.SetDescription("Creates an account and starts a session. Sets the session cookie.")
	postRegister.AddReqStructure(RegisterRequest{})
	postRegister.AddRespStructure(MeResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postRegister.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postRegister)

	// POST /api/auth/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/auth/login")
	postLogin.SetSummary("Log in")
	postLogin.SetDescription("Authenticates with name and password. Sets the session cookie.")
	postLogin.AddReqStructure(LoginRequest{})
	postLogin.AddRespStructure(MeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /api/auth/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/auth/logout")
	postLogout.SetSummary("Log out")
	postLogout.SetDescription("Clears the session and cookie.")
	postLogout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postLogout)

	// GET /api/auth/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/auth/me")
	getMe.SetSummary("Current user")
	getMe.SetDescription("Returns the authenticated account. Requires the session cookie.")
	getMe.AddRespStructure(MeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	// POST /api/game/start
	postStart, _ := r.NewOperationContext(http.MethodPost, "/api/game/start")
	postStart.SetSummary("Start a run")
	postStart.SetDescription("Starts a fresh run in the requested gamemode, replacing any previous run.")
	postStart.AddReqStructure(StartRunRequest{})
	postStart.AddRespStructure(RunResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postStart)

	// POST /api/game/navigate
	postNavigate, _ := r.NewOperationContext(http.MethodPost, "/api/game/navigate")
	postNavigate.SetSummary("Navigate")
	postNavigate.SetDescription("Follows a link click. Returns the page, the mode outcome, and any win or stage completion.")
	postNavigate.AddReqStructure(NavigateRequest{})
	postNavigate.AddRespStructure(RunResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postNavigate.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postNavigate)

	// GET /api/game/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/game/state")
	getState.SetSummary("Run state")
	getState.SetDescription("Returns the current run summary.")
	getState.AddRespStructure(RunResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getState)

	// GET /api/game/events
	getRunEvents, _ := r.NewOperationContext(http.MethodGet, "/api/game/events")
	getRunEvents.SetSummary("Run event stream")
	getRunEvents.SetDescription("Server-Sent Events stream of run lifecycle events for this session.")
	getRunEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getRunEvents)

	// GET /api/game/rogue/choices
	getChoices, _ := r.NewOperationContext(http.MethodGet, "/api/game/rogue/choices")
	getChoices.SetSummary("Difficulty choices")
	getChoices.SetDescription("Returns the modifier options offered between Rogue stages.")
	getChoices.AddRespStructure(ModifierChoicesResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getChoices.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(getChoices)

	// POST /api/game/rogue/modifiers
	postModifiers, _ := r.NewOperationContext(http.MethodPost, "/api/game/rogue/modifiers")
	postModifiers.SetSummary("Choose modifiers")
	postModifiers.SetDescription("Activates modifiers for the next Rogue stage and opens the shop.")
	postModifiers.AddReqStructure(ChooseModifiersRequest{})
	postModifiers.AddRespStructure(ShopResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postModifiers.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postModifiers)

	// GET /api/game/rogue/shop
	getShop, _ := r.NewOperationContext(http.MethodGet, "/api/game/rogue/shop")
	getShop.SetSummary("Shop offer")
	getShop.SetDescription("Returns the current shop inventory and the player's click balance.")
	getShop.AddRespStructure(ShopResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getShop.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(getShop)

	// POST /api/game/rogue/shop/buy
	postBuy, _ := r.NewOperationContext(http.MethodPost, "/api/game/rogue/shop/buy")
	postBuy.SetSummary("Buy item")
	postBuy.SetDescription("Purchases an item from the current shop offer.")
	postBuy.AddReqStructure(ItemRequest{})
	postBuy.AddRespStructure(ShopResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postBuy.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postBuy.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postBuy)

	// POST /api/game/rogue/shop/reroll
	postReroll, _ := r.NewOperationContext(http.MethodPost, "/api/game/rogue/shop/reroll")
	postReroll.SetSummary("Reroll shop")
	postReroll.SetDescription("Regenerates the shop offer for a free reroll or the reroll cost.")
	postReroll.AddRespStructure(ShopResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postReroll.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postReroll)

	// POST /api/game/rogue/items/use
	postUse, _ := r.NewOperationContext(http.MethodPost, "/api/game/rogue/items/use")
	postUse.SetSummary("Use item")
	postUse.SetDescription("Consumes an owned item during a Rogue stage.")
	postUse.AddReqStructure(ItemRequest{})
	postUse.AddRespStructure(RunResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postUse.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postUse)

	// POST /api/game/rogue/next
	postNext, _ := r.NewOperationContext(http.MethodPost, "/api/game/rogue/next")
	postNext.SetSummary("Start next stage")
	postNext.SetDescription("Leaves the shop and begins the next Rogue stage.")
	postNext.AddRespStructure(RunResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postNext.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postNext)

	// GET /api/leaderboard/{board}
	getBoard, _ := r.NewOperationContext(http.MethodGet, "/api/leaderboard/{board}")
	getBoard.SetSummary("Leaderboard")
	getBoard.SetDescription("Returns a board's top entries. Query parameter: lang.")
	getBoard.AddRespStructure(LeaderboardResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getBoard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getBoard)

	// GET /api/leaderboard/{board}/challenged
	getChallenged, _ := r.NewOperationContext(http.MethodGet, "/api/leaderboard/{board}/challenged")
	getChallenged.SetSummary("Challenge check")
	getChallenged.SetDescription("Reports whether the player already challenged a route. Query parameters: player, start, target.")
	getChallenged.AddRespStructure(ChallengedResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getChallenged.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(getChallenged)

	// POST /api/challenges
	postChallenge, _ := r.NewOperationContext(http.MethodPost, "/api/challenges")
	postChallenge.SetSummary("Create challenge")
	postChallenge.SetDescription("Creates a shareable replay of a start/target pair.")
	postChallenge.AddReqStructure(CreateChallengeRequest{})
	postChallenge.AddRespStructure(Challenge{}, openapi.WithHTTPStatus(http.StatusCreated))
	postChallenge.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postChallenge)

	// GET /api/challenges/{id}
	getChallenge, _ := r.NewOperationContext(http.MethodGet, "/api/challenges/{id}")
	getChallenge.SetSummary("Get challenge")
	getChallenge.SetDescription("Returns a challenge by id.")
	getChallenge.AddRespStructure(Challenge{}, openapi.WithHTTPStatus(http.StatusOK))
	getChallenge.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getChallenge)

	// POST /api/party
	postParty, _ := r.NewOperationContext(http.MethodPost, "/api/party")
	postParty.SetSummary("Create party")
	postParty.SetDescription("Opens a lobby with the caller as host.")
	postParty.AddReqStructure(CreatePartyRequest{})
	postParty.AddRespStructure(PartyMembershipResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	_ = r.AddOperation(postParty)

	// POST /api/party/{code}/join
	postJoin, _ := r.NewOperationContext(http.MethodPost, "/api/party/{code}/join")
	postJoin.SetSummary("Join party")
	postJoin.SetDescription("Joins an existing lobby by code.")
	postJoin.AddReqStructure(JoinPartyRequest{})
	postJoin.AddRespStructure(PartyMembershipResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postJoin)

	// GET /api/party/{code}
	getParty, _ := r.NewOperationContext(http.MethodGet, "/api/party/{code}")
	getParty.SetSummary("Party state")
	getParty.SetDescription("Returns the party roster and game parameters.")
	getParty.AddRespStructure(party.View{}, openapi.WithHTTPStatus(http.StatusOK))
	getParty.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getParty)

	// POST /api/party/{code}/start
	postPartyStart, _ := r.NewOperationContext(http.MethodPost, "/api/party/{code}/start")
	postPartyStart.SetSummary("Start party game")
	postPartyStart.SetDescription("Host sets the shared start/target pair and announces the game.")
	postPartyStart.AddReqStructure(StartPartyRequest{})
	postPartyStart.AddRespStructure(party.View{}, openapi.WithHTTPStatus(http.StatusOK))
	postPartyStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(postPartyStart)

	// POST /api/party/{code}/leave
	postLeave, _ := r.NewOperationContext(http.MethodPost, "/api/party/{code}/leave")
	postLeave.SetSummary("Leave party")
	postLeave.SetDescription("Removes the caller from the party roster.")
	postLeave.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	postLeave.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postLeave)

	// GET /api/party/{code}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/party/{code}/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of party roster, progress, and win events.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
