package content

// Difficulties
const (
	DifficultyEasy     = "easy"
	DifficultyModerate = "moderate"
	DifficultyHard     = "hard"
)

var Difficulties = []string{DifficultyEasy, DifficultyModerate, DifficultyHard}

func IsValidDifficulty(d string) bool {
	for _, v := range Difficulties {
		if v == d {
			return true
		}
	}
	return false
}

type (
	// Article is a static learning item; reading one awards its points once.
	Article struct {
		ID            string `json:"id"`
		Title         string `json:"title"`
		Level         string `json:"level"`
		Category      string `json:"category"`
		EstimatedTime string `json:"estimatedTime"`
		Points        int    `json:"points"`
		Excerpt       string `json:"excerpt"`
		Content       string `json:"content"`
	}

	// QuizQuestion is a fixed question in a difficulty-keyed bank.
	QuizQuestion struct {
		ID          string   `json:"id"`
		Question    string   `json:"question"`
		Options     []string `json:"options"`
		Answer      string   `json:"answer"`
		Points      int      `json:"points"`
		Explanation string   `json:"explanation"`
	}

	GameQuestion struct {
		ID          int      `json:"id"`
		Question    string   `json:"question"`
		Options     []string `json:"options"`
		Correct     int      `json:"correct"`
		Explanation string   `json:"explanation"`
	}

	// Game is a timed trivia set with a fixed entry cost and reward.
	Game struct {
		ID          string         `json:"id"`
		Title       string         `json:"title"`
		Description string         `json:"description"`
		Icon        string         `json:"icon"`
		Difficulty  string         `json:"difficulty"`
		KPCost      int            `json:"kpCost"`
		KPReward    int            `json:"kpReward"`
		TimeLimit   int            `json:"timeLimit"` // seconds
		Questions   []GameQuestion `json:"questions"`
	}

	// ChatDef is a themed AI chat session offering with a fixed entry cost.
	ChatDef struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Cost        int    `json:"cost"`
		Greeting    string `json:"greeting"`
	}

	// NFTTier maps a KP amount to a named collectible and rarity.
	NFTTier struct {
		KP          int    `json:"kp"`
		NFTType     string `json:"nftType"`
		Rarity      string `json:"rarity"`
		Description string `json:"description"`
	}

	// GalleryNFT is a mintable catalog collectible.
	GalleryNFT struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Rarity      string `json:"rarity"`
		Category    string `json:"category"`
		Cost        int    `json:"cost"`
		Available   bool   `json:"available"`
	}

	// StakeOption maps a KP investment to a KP return and the number of
	// correct answers required to claim it.
	StakeOption struct {
		ID                string  `json:"id"`
		Name              string  `json:"name"`
		InvestmentKP      int     `json:"investmentKP"`
		ReturnKP          int     `json:"returnKP"`
		QuestionsRequired int     `json:"questionsRequired"`
		Duration          string  `json:"duration"`
		Multiplier        float64 `json:"multiplier"`
		Difficulty        string  `json:"difficulty"`
	}

	// LeaderboardEntry is part of a static ranked snapshot; no action in the
	// platform updates it.
	LeaderboardEntry struct {
		Rank            int    `json:"rank"`
		Username        string `json:"username"`
		KnowledgePoints int    `json:"knowledgePoints"`
		Badges          int    `json:"badges"`
		Level           string `json:"level"`
	}
)
