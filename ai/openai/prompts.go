package openai

import "fmt"

// typeSchemas maps a document type to the JSON skeleton the analyzer asks the
// model to fill in. Types without a dedicated schema fall back to the general one.
var typeSchemas = map[string]string{
	"contract": `{
    "document_type": "contract",
    "parties": ["Party 1", "Party 2"],
    "contract_date": "YYYY-MM-DD or null",
    "expiry_date": "YYYY-MM-DD or null",
    "key_terms": ["term1", "term2"],
    "financial_amounts": [{"amount": "value", "currency": "USD", "description": "purpose"}],
    "important_dates": [{"date": "YYYY-MM-DD", "event": "description"}],
    "summary": "Brief contract summary",
    "risk_factors": ["risk1", "risk2"]
}`,
	"invoice": `{
    "document_type": "invoice",
    "invoice_number": "INV-XXXX",
    "date": "YYYY-MM-DD",
    "due_date": "YYYY-MM-DD",
    "vendor": {"name": "Company Name", "address": "Full Address", "contact": "Email/Phone"},
    "client": {"name": "Company Name", "address": "Full Address", "contact": "Email/Phone"},
    "items": [{"description": "Item description", "quantity": 1, "unit_price": 100.00, "total": 100.00}],
    "totals": {"subtotal": 100.00, "tax": 10.00, "total": 110.00, "currency": "USD"},
    "payment_terms": "Payment terms",
    "summary": "Invoice summary"
}`,
	"resume": `{
    "document_type": "resume",
    "candidate_info": {"name": "Full Name", "email": "email@example.com", "phone": "+1-xxx-xxx-xxxx", "position_desired": "Target Position"},
    "experience": [{"company": "Company Name", "position": "Job Title", "start_date": "MM/YYYY", "end_date": "MM/YYYY or Present", "responsibilities": ["responsibility1"]}],
    "education": [{"institution": "University Name", "degree": "Degree Type", "field": "Field of Study", "graduation_date": "YYYY"}],
    "skills": {"technical": ["skill1", "skill2"], "languages": [{"language": "English", "level": "Native"}]},
    "summary": "Professional summary",
    "years_experience": 5
}`,
	"report": `{
    "document_type": "report",
    "title": "Report title",
    "main_topic": "Report main topic",
    "key_findings": ["finding1", "finding2"],
    "recommendations": ["recommendation1", "recommendation2"],
    "summary": "Report summary in 2-3 sentences",
    "period_covered": "Reporting period if mentioned"
}`,
	"general": `{
    "document_type": "general",
    "main_topic": "Document main topic",
    "key_entities": {
        "people": ["Person 1", "Person 2"],
        "organizations": ["Company 1", "Company 2"],
        "dates": ["2023-01-01"],
        "amounts": ["$1000"],
        "locations": ["City, Country"]
    },
    "summary": "Document summary in 2-3 sentences",
    "key_points": ["point1", "point2"],
    "action_items": ["action1"],
    "sentiment": "positive/negative/neutral",
    "urgency": "high/medium/low",
    "category": "business/legal/personal/technical"
}`,
}

// buildAnalysisPrompt assembles the user prompt for a document analysis call.
// Document text beyond maxChars is truncated to keep the prompt within the
// model's context window.
func buildAnalysisPrompt(text, documentType string, maxChars int) string {
	if len(text) > maxChars {
		text = text[:maxChars]
	}

	schema, ok := typeSchemas[documentType]
	if !ok {
		schema = typeSchemas["general"]
	}

	return fmt.Sprintf(`Analyze the following document and extract structured information.

Document text:
%s

Please extract the following information in JSON format:
%s

Respond only with valid JSON.`, text, schema)
}

// analysisSystemPrompt frames the model's role for every analysis call.
const analysisSystemPrompt = `You are a document analysis assistant. You read documents and return structured JSON describing their contents. You respond only with valid JSON and never include commentary.`
