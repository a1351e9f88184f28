package gemini

import "fmt"

// chatSystemPrompt builds the assistant persona with the user-context
// snapshot embedded.
func chatSystemPrompt(userContext string) string {
	if userContext == "" {
		userContext = "Nenhum"
	}
	return fmt.Sprintf(
		"Você é o Fin, assistente financeiro pessoal.\n"+
			"CONTEXTO DO USUÁRIO: %s\n"+
			"Responda de forma direta, breve e use emojis.\n"+
			"Use as funções disponíveis para adicionar, editar ou remover transações quando o usuário pedir.",
		userContext)
}

// parsePrompt instructs the model to extract transactions from a bank
// statement or receipt as a strict JSON array.
const parsePrompt = "Você é um extrator de transações de extratos bancários e comprovantes.\n\n" +
	"Tarefa:\n" +
	"- Extraia TODAS as transações do documento anexado ou do texto abaixo.\n" +
	"- Responda APENAS com JSON válido (sem comentários, sem texto extra).\n" +
	"- Responda com um array JSON de objetos.\n\n" +
	"Cada objeto deve ter estes campos:\n" +
	"- \"date\": string, formato ISO \"YYYY-MM-DD\"\n" +
	"- \"description\": string\n" +
	"- \"amount\": número positivo\n" +
	"- \"type\": \"INCOME\" ou \"EXPENSE\"\n" +
	"- \"category\": string (por exemplo Alimentação, Transporte, Compras, Contas, Salário, Saúde, Lazer, Outros)\n" +
	"- \"paymentMethod\": \"CREDIT_CARD\", \"DEBIT_CARD\", \"CASH\", \"PIX\" ou \"OTHER\"\n\n" +
	"Regras:\n" +
	"- Se nada for encontrado, responda com [].\n" +
	"- NÃO use cercas de código nem Markdown.\n" +
	"- A resposta deve começar com \"[\" e terminar com \"]\".\n"

// reportPrompt asks for the financial-advice report as JSON.
const reportPrompt = "Gere um relatório financeiro JSON com: summary, spendingAnalysis e tips. " +
	"Responda APENAS com um objeto JSON com os campos \"summary\" (string), " +
	"\"spendingAnalysis\" (string) e \"tips\" (array de strings)."
