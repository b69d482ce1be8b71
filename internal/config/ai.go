package config

type AI string

const (
	AIGemini     AI = "gemini"
	AIOpenRouter AI = "openrouter"
)

type Model string

const (
	ModelGeminiV25Pro       Model = "gemini-2.5-pro"
	ModelGeminiV25Flash     Model = "gemini-2.5-flash"
	ModelGeminiV25FlashLite Model = "gemini-2.5-flash-lite"

	ModelDeepSeekR1T2Chimera Model = "tngtech/deepseek-r1t2-chimera:free"
)

const DefaultOpenRouterURL = "https://openrouter.ai/api/v1/chat/completions"

func ModelsForAI(ai AI) []Model {
	switch ai {
	case AIGemini:
		return []Model{
			ModelGeminiV25Pro,
			ModelGeminiV25Flash,
			ModelGeminiV25FlashLite,
		}
	case AIOpenRouter:
		return []Model{
			ModelDeepSeekR1T2Chimera,
		}
	default:
		return []Model{}
	}
}

func DefaultModelForAI(ai AI) Model {
	models := ModelsForAI(ai)
	if len(models) == 0 {
		return ""
	}
	return models[0]
}
