package steam

type playerSummariesDTO struct {
	Response struct {
		Players []playerDTO `json:"players"`
	} `json:"response"`
}

type playerDTO struct {
	SteamID       string `json:"steamid"`
	PersonaName   string `json:"personaname"`
	PersonaState  int    `json:"personastate"`
	ProfileURL    string `json:"profileurl"`
	AvatarFull    string `json:"avatarfull"`
	AvatarHash    string `json:"avatarhash"`
	LastLogoff    int64  `json:"lastlogoff"`
	GameID        string `json:"gameid"`
	GameExtraInfo string `json:"gameextrainfo"`
}
