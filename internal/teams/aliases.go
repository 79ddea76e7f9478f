package teams

// DefaultAliases maps canonical football-data.org names to the spellings used by odds providers.
func DefaultAliases() map[string][]string {
	return map[string][]string{
		// Premier League
		"Arsenal FC":                 {"Arsenal"},
		"Chelsea FC":                 {"Chelsea"},
		"Liverpool FC":               {"Liverpool"},
		"Manchester City FC":         {"Manchester City", "Man City"},
		"Manchester United FC":       {"Manchester United", "Man United", "Man Utd"},
		"Tottenham Hotspur FC":       {"Tottenham", "Spurs"},
		"Newcastle United FC":        {"Newcastle United", "Newcastle"},
		"Brighton & Hove Albion FC":  {"Brighton", "Brighton & Hove Albion"},
		"West Ham United FC":         {"West Ham United", "West Ham"},
		"Aston Villa FC":             {"Aston Villa"},
		"Crystal Palace FC":          {"Crystal Palace"},
		"Fulham FC":                  {"Fulham"},
		"Wolverhampton Wanderers FC": {"Wolves", "Wolverhampton"},
		"Everton FC":                 {"Everton"},
		"Brentford FC":               {"Brentford"},
		"Nottingham Forest FC":       {"Nottingham Forest", "Nott'm Forest"},
		"Luton Town FC":              {"Luton Town", "Luton"},
		"Burnley FC":                 {"Burnley"},
		"Sheffield United FC":        {"Sheffield United", "Sheffield Utd"},
		"AFC Bournemouth":            {"Bournemouth"},

		// La Liga
		"Real Madrid CF":            {"Real Madrid"},
		"FC Barcelona":              {"Barcelona"},
		"Club Atlético de Madrid":   {"Atletico Madrid", "Atlético Madrid", "Atlético de Madrid"},
		"Sevilla FC":                {"Sevilla"},
		"Real Sociedad de Fútbol":   {"Real Sociedad"},
		"Real Betis Balompié":       {"Real Betis"},
		"Villarreal CF":             {"Villarreal"},
		"Athletic Club":             {"Athletic Bilbao"},
		"Valencia CF":               {"Valencia"},
		"RC Celta de Vigo":          {"Celta Vigo"},
		"RCD Espanyol de Barcelona": {"Espanyol"},
		"Getafe CF":                 {"Getafe"},
		"CA Osasuna":                {"Osasuna"},
		"Rayo Vallecano de Madrid":  {"Rayo Vallecano"},
		"Deportivo Alavés":          {"Alaves"},
		"Cádiz CF":                  {"Cadiz"},
		"RCD Mallorca":              {"Mallorca"},
		"UD Las Palmas":             {"Las Palmas"},
		"Girona FC":                 {"Girona"},
		"UD Almería":                {"Almeria"},

		// Bundesliga
		"FC Bayern München":        {"Bayern Munich", "Bayern München"},
		"Borussia Dortmund":        {"Dortmund"},
		"RB Leipzig":               {"Leipzig"},
		"Bayer 04 Leverkusen":      {"Bayer Leverkusen"},
		"Eintracht Frankfurt":      {"Frankfurt"},
		"Borussia Mönchengladbach": {"Monchengladbach", "M'gladbach"},
		"VfL Wolfsburg":            {"Wolfsburg"},
		"SC Freiburg":              {"Freiburg"},
		"TSG 1899 Hoffenheim":      {"Hoffenheim"},
		"FC Augsburg":              {"Augsburg"},
		"VfB Stuttgart":            {"Stuttgart"},
		"1. FC Union Berlin":       {"Union Berlin"},
		"Hertha BSC":               {"Hertha Berlin"},
		"FC Schalke 04":            {"Schalke"},
		"SV Werder Bremen":         {"Werder Bremen", "Bremen"},
		"1. FC Köln":               {"FC Koln", "Cologne"},
		"VfL Bochum 1848":          {"Bochum"},
		"1. FSV Mainz 05":          {"FSV Mainz 05", "Mainz"},

		// Serie A
		"Juventus FC":              {"Juventus"},
		"AC Milan":                 {"Milan"},
		"FC Internazionale Milano": {"Inter Milan", "Inter"},
		"SSC Napoli":               {"Napoli"},
		"AS Roma":                  {"Roma"},
		"SS Lazio":                 {"Lazio"},
		"Atalanta BC":              {"Atalanta"},
		"ACF Fiorentina":           {"Fiorentina"},
		"Torino FC":                {"Torino"},
		"Bologna FC 1909":          {"Bologna"},
		"UC Sampdoria":             {"Sampdoria"},
		"Genoa CFC":                {"Genoa"},
		"Udinese Calcio":           {"Udinese"},
		"US Sassuolo Calcio":       {"Sassuolo"},
		"Hellas Verona FC":         {"Hellas Verona", "Verona"},
		"Cagliari Calcio":          {"Cagliari"},
		"US Lecce":                 {"Lecce"},
		"Empoli FC":                {"Empoli"},
		"AC Monza":                 {"Monza"},
		"Frosinone Calcio":         {"Frosinone"},

		// Ligue 1
		"Paris Saint-Germain FC": {"Paris Saint Germain", "PSG"},
		"Olympique de Marseille": {"Marseille"},
		"Olympique Lyonnais":     {"Lyon"},
		"AS Monaco FC":           {"Monaco"},
		"OGC Nice":               {"Nice"},
		"Stade Rennais FC 1901":  {"Rennes"},
		"Racing Club de Lens":    {"RC Lens", "Lens"},
		"Lille OSC":              {"LOSC Lille", "Lille"},
		"Stade de Reims":         {"Reims"},
		"FC Nantes":              {"Nantes"},
		"Montpellier HSC":        {"Montpellier"},
		"RC Strasbourg Alsace":   {"Strasbourg"},
		"Le Havre AC":            {"Le Havre"},
		"FC Metz":                {"Metz"},
		"Stade Brestois 29":      {"Brest"},
		"Clermont Foot 63":       {"Clermont"},
		"FC Lorient":             {"Lorient"},
		"Toulouse FC":            {"Toulouse"},
	}
}
