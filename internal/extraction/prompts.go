package extraction

import "github.com/JenosKanjiro/social-support-agent/workflow"

const emiratesIDPrompt = `You are an AI assistant helping with information extraction from Emirates ID cards.
Examine the attached Emirates ID image and extract the structured information.

Please extract the following information, formatted as a JSON object:
- emirates_id: The Emirates ID number
- full_name: The full name of the ID holder
- first_name: The first name
- last_name: The last name
- middle_name: The middle name if present
- nationality: The nationality of the ID holder
- date_of_birth: The date of birth in DD-MM-YYYY format if possible
- gender: The gender/sex of the ID holder

Only include fields if you find them in the image. If you are not sure about a field, do not include it.
Respond with valid JSON only.`

const creditReportPrompt = `You are an AI assistant helping with information extraction from credit reports.
Examine the attached credit report image and extract the structured information.

Please extract the following information, formatted as a JSON object:
- credit_score: The credit score (as a number)
- accounts: An array of accounts with:
  * account_number: Account identifier (may be masked)
  * account_type: Type of account (credit card, loan, etc.)
  * institution: Financial institution name
  * balance: Current balance
  * status: Account status (open, closed, etc.)
- inquiries: An array of recent credit inquiries
- payment_history: Any information about payment history
- adverse_items: Any adverse items or delinquencies

Only include fields if you find them in the image. If you are not sure about a field, do not include it.
Respond with valid JSON only.`

func visionPrompt(kind workflow.DocumentKind) string {
	if kind == workflow.DocCreditReport {
		return creditReportPrompt
	}
	return emiratesIDPrompt
}
