// ABOUTME: Generation topics and deterministic fallback texts for every bot message
// ABOUTME: Each generated message has a fallback so an absent generator never blocks the flow

package engine

// Topics handed to the narrative generator.
const (
	topicWelcome         = "Generate a friendly welcome message for a car insurance chat bot, plain text only"
	topicPassportRequest = "Generate a message asking the user to submit a passport photo for car insurance, plain text only"
	topicPriceDisclosure = "Generate a short message informing the user that car insurance costs 100 USD and asking for confirmation, plain text only"
	topicClosing         = "Generate a short thank you message for completing a car insurance purchase, plain text only"
)

// Deterministic texts. The *Fallback ones substitute for absent generated
// text; the rest are always sent verbatim.
const (
	msgWelcomeFallback = "👋 Welcome to our Car Insurance Bot! I'm here to help you quickly purchase car insurance. " +
		"I'll guide you through document submission, verification, and policy issuance."

	msgPassportRequestFallback = "To get started, please send me a clear photo of your passport. " +
		"Make sure all text is readable and the entire document is visible."

	msgPassportReceived = "Thank you for sending your passport photo. " +
		"Now, please send a photo of your vehicle identification document."

	msgProcessingDocuments = "Thank you for submitting both documents. I'm now processing them..."

	msgExtractionFailed = "I couldn't read your documents clearly. " +
		"Please send clear photos again, starting with your passport."

	msgConfirmDataYesNo = "Please confirm if the extracted data is correct by typing 'yes' or 'no'."

	msgResubmitDocuments = "I'm sorry for the inaccuracy. " +
		"Please send clear photos of your documents again, starting with your passport."

	msgPriceFallback = "Based on the information provided, your car insurance premium is 100 USD. " +
		"Do you agree with this price and wish to proceed with the purchase?"

	msgPriceIsFixed = "I apologize, but 100 USD is our fixed price for car insurance. " +
		"Would you like to proceed with this price?"

	msgConfirmPriceYesNo = "Please indicate if you agree with the price by typing 'yes' or 'no'."

	msgPolicyReady = "Thank you for your purchase! Your insurance policy has been generated successfully. " +
		"Here is your policy document:"

	msgClosingFallback = "Thank you for choosing our insurance services! Your policy is now active. " +
		"If you have any questions or need assistance, feel free to contact our support team. Drive safely!"

	msgAlreadyCompleted = "Your insurance policy has already been issued. " +
		"If you'd like to purchase another policy, please type /start to begin a new process."

	msgExpectingPhoto = "I'm expecting a document photo at this stage. Please send one, or type /start to restart."

	msgUnexpectedPhoto = "I'm not expecting a photo at this stage. Please follow the instructions."

	msgClarify = "I'm not sure what you're asking for. " +
		"Please follow the instructions or type /start to begin the car insurance purchase process."

	msgUnsupportedInput = "I can only process text messages and photos. Please try again."

	msgDataMissing = "There was an issue retrieving your data. Please start over by typing /start."
)
