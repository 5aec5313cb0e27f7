package users

// Level derives the gamification tier from cumulative experience points.
func Level(exp int) int {
	if exp < 0 {
		exp = 0
	}
	return exp/5 + 1
}

var levelNames = map[int]string{
	1: "Pemula",
	2: "Penjelajah",
	3: "Petualang",
	4: "Pendaki Handal",
	5: "Penakluk Rimba",
}

const maxLevelName = "Legenda Alam"

// LevelName maps a level to its display title. Levels past the table share
// a single catch-all title.
func LevelName(level int) string {
	if name, ok := levelNames[level]; ok {
		return name
	}
	if level > 5 {
		return maxLevelName
	}
	return levelNames[1]
}
