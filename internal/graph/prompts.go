package graph

import (
	"fmt"
	"strings"

	"github.com/koopa0/canvas/internal/artifact"
)

const appContextPrompt = `Use this context about the application the user is interacting with when generating your response:
<app-context>
The name of the application is "Canvas". Canvas is an application where users have a chat window and a canvas to display an artifact.
Artifacts can be any sort of writing content, emails, code, or other creative writing work. Think of artifacts as content you might find on a blog, Google doc, or other writing platform.
Users only have a single artifact per conversation, however they have the ability to go back and forth between artifact edits/revisions.
</app-context>`

const newArtifactPrompt = `You are an AI assistant tasked with generating a new artifact based on the user's request.
` + appContextPrompt + `

Follow these rules and guidelines:
<rules-guidelines>
- Do not wrap the artifact in any XML tags you see in this prompt.
- If writing code, do not add inline comments unless the user has specifically requested them.
- Fulfill the user's request to the best of your ability, using the full conversation as context.
</rules-guidelines>

You also have the following reflections on style guidelines and general memories/facts about the user to use when generating your response.
<reflections>
%s
</reflections>%s`

const updateEntireArtifactPrompt = `You are an AI assistant, and the user has requested you make an update to an artifact you generated in the past.

Here is the current content of the artifact:
<artifact>
%s
</artifact>

You also have the following reflections on style guidelines and general memories/facts about the user to use when generating your response.
<reflections>
%s
</reflections>

Please update the artifact based on the user's request.

Follow these rules and guidelines:
<rules-guidelines>
- You should respond with the ENTIRE updated artifact, with no additional text before and after.
- Do not wrap it in any XML tags you see in this prompt.
- You should use proper markdown syntax when appropriate, as the text you generate will be rendered in markdown. UNLESS YOU ARE WRITING CODE.
- When you generate code, a markdown renderer is NOT used so if you respond with code in markdown syntax, or wrap the code in triple backticks it will break the UI for the user.
- If generating code, it is imperative you never wrap it in triple backticks, or prefix/suffix it with plain text. Ensure you ONLY respond with the code.
</rules-guidelines>%s`

const updateMetaPrompt = `

It has been pre-determined based on the user's message and other context that the type of the artifact should be:
%s
%s`

const titleTypeRewritePrompt = `You are an AI assistant who has been tasked with analyzing the user's request to rewrite an artifact.

Your task is to determine what the title and type of the artifact should be based on the user's request.
You should NOT modify the title unless the user's request indicates the artifact subject/topic has changed.
You do NOT need to change the type unless it is clear the user is asking for their artifact to be a different type.
Use this context about the application when making your decision:
` + appContextPrompt + `

The artifact declared as 'text' is rendered and edited as markdown. The 'code' type is rendered in a code editor.

Here is the current artifact (only the first 500 characters, or less if the artifact is shorter):
<artifact>
%s
</artifact>

The users message below is the most recent message they sent. Use this to determine what the title and type of the artifact should be.`

const updateHighlightedArtifactPrompt = `You are an expert AI writing assistant, tasked with rewriting some code a user has selected. The selected code is a part of a larger artifact they have created.
You should ONLY respond with the updated code, with no additional text before and after.
The selected code should be updated based on the user's request, and its surrounding content should be taken into account.

# Selected code
<highlight>
%s
</highlight>

# Text before the selection
<before-highlight>
%s
</before-highlight>

# Text after the selection
<after-highlight>
%s
</after-highlight>

Your response will REPLACE the selected code exactly, so never include the surrounding content in your response, and never wrap your response in markdown syntax or triple backticks.

You also have the following reflections on style guidelines and general memories/facts about the user to use when generating your response.
<reflections>
%s
</reflections>`

const updateHighlightedTextPrompt = `You are an expert AI writing assistant, tasked with rewriting some text a user has selected. The selected text is nested inside a larger 'block'. You should always respond with ONLY the updated text block in accordance with the user's request.
You should always respond with the full markdown text block, as it will simply replace the existing block in the artifact.
Never wrap your response in markdown syntax or triple backticks.

# Selected text
<selected-text>
%s
</selected-text>

# Text block
<text-block>
%s
</text-block>

Your response will REPLACE the entire text block, so ensure it is complete.`

const changeArtifactLanguagePrompt = `You are tasked with translating the following artifact into %s.

Here is the artifact:
<artifact>
%s
</artifact>

Rules and guidelines:
<rules-guidelines>
- ONLY change the language and nothing else.
- Respond with ONLY the updated artifact, and no additional text before or after.
- Do not wrap it in any XML tags you see in this prompt.
</rules-guidelines>

You also have the following reflections on style guidelines and general memories/facts about the user to use when generating your response.
<reflections>
%s
</reflections>`

const changeReadingLevelPrompt = `You are tasked with re-writing the following artifact to be at a %s reading level.
Ensure you do not drastically change the meaning or content of the artifact, simply update the language to be of the appropriate reading level.

Here is the artifact:
<artifact>
%s
</artifact>

Rules and guidelines:
<rules-guidelines>
- Respond with ONLY the updated artifact, and no additional text before or after.
- Do not wrap it in any XML tags you see in this prompt.
</rules-guidelines>

You also have the following reflections on style guidelines and general memories/facts about the user to use when generating your response.
<reflections>
%s
</reflections>`

const changeToPiratePrompt = `You are tasked with re-writing the following artifact to sound like a pirate.
Ensure you do not drastically change the meaning or content of the artifact, but you're still able to have fun with it. The artifact should still retain its original purpose.

Here is the artifact:
<artifact>
%s
</artifact>

Rules and guidelines:
<rules-guidelines>
- Respond with ONLY the updated artifact, and no additional text before or after.
- Do not wrap it in any XML tags you see in this prompt.
</rules-guidelines>

You also have the following reflections on style guidelines and general memories/facts about the user to use when generating your response.
<reflections>
%s
</reflections>`

const changeArtifactLengthPrompt = `You are tasked with re-writing the following artifact to be %s.
Ensure you do not drastically change the meaning or content of the artifact, simply update the length to be as requested.

Here is the artifact:
<artifact>
%s
</artifact>

Rules and guidelines:
<rules-guidelines>
- Respond with ONLY the updated artifact, and no additional text before or after.
- Do not wrap it in any XML tags you see in this prompt.
</rules-guidelines>

You also have the following reflections on style guidelines and general memories/facts about the user to use when generating your response.
<reflections>
%s
</reflections>`

const addEmojisPrompt = `You are tasked with re-writing the following artifact to include emojis.
Ensure you do not drastically change the meaning or content of the artifact, simply add emojis throughout where appropriate.

Here is the artifact:
<artifact>
%s
</artifact>

Rules and guidelines:
<rules-guidelines>
- Respond with ONLY the updated artifact, and no additional text before or after.
- Do not wrap it in any XML tags you see in this prompt.
</rules-guidelines>

You also have the following reflections on style guidelines and general memories/facts about the user to use when generating your response.
<reflections>
%s
</reflections>`

const addCommentsToCodePrompt = `You are an expert software engineer, tasked with updating the following code by adding comments to it.
Ensure you do NOT modify any logic or functionality of the code, simply add comments to explain the code.

Your comments should be clear and concise. Do not add unnecessary or redundant comments.

Here is the code to add comments to:
<code>
%s
</code>

Rules and guidelines:
<rules-guidelines>
- Respond with ONLY the updated code, and no additional text before or after.
- Ensure you respond with the entire updated code, including the comments. Do not leave out any code from the original input.
- Do not wrap it in any XML tags you see in this prompt. Do not include triple backticks unless they are part of the original input.
</rules-guidelines>`

const addLogsToCodePrompt = `You are an expert software engineer, tasked with updating the following code by adding log statements to it.
Ensure you do NOT modify any logic or functionality of the code, simply add logs to help with debugging.

Your logs should be clear and useful. Do not add redundant logs.

Here is the code to add logs to:
<code>
%s
</code>

Rules and guidelines:
<rules-guidelines>
- Respond with ONLY the updated code, and no additional text before or after.
- Ensure you respond with the entire updated code, including the logs. Do not leave out any code from the original input.
- Do not wrap it in any XML tags you see in this prompt. Do not include triple backticks unless they are part of the original input.
</rules-guidelines>`

const portLanguageCodePrompt = `You are an expert software engineer, tasked with re-writing the following code in %s.
Ensure you do not change the logic or functionality of the code, simply update the code to be in the new language.

Here is the code to rewrite:
<code>
%s
</code>

Rules and guidelines:
<rules-guidelines>
- Respond with ONLY the updated code, and no additional text before or after.
- Ensure you respond with the entire updated code. Your user expects a fully translated code snippet.
- Do not wrap it in any XML tags you see in this prompt. Do not include triple backticks unless they are part of the original input.
</rules-guidelines>`

const fixBugsCodePrompt = `You are an expert software engineer, tasked with fixing any bugs in the following code.
Read through all the code carefully before making any changes. Think through the logic, and ensure you do not introduce new bugs.

Here is the code to fix:
<code>
%s
</code>

Rules and guidelines:
<rules-guidelines>
- Respond with ONLY the updated code, and no additional text before or after.
- Ensure you respond with the entire updated code. Do not leave out any code from the original input.
- Do not wrap it in any XML tags you see in this prompt. Do not include triple backticks unless they are part of the original input.
</rules-guidelines>`

const customActionPrefixPrompt = `You are an AI assistant tasked with rewriting a user's generated artifact.
They have provided custom instructions on how you should manage rewriting the artifact. The custom instructions are wrapped inside the <custom-instructions> tags.

` + appContextPrompt

const customActionReflectionsPrompt = `The following are reflections on the user's style guidelines and general memories/facts about the user.
Use these reflections as context when generating your response.
<reflections>
%s
</reflections>`

const customActionConversationPrompt = `Here is the last 5 (or less) messages in the chat history between you and the user:
<conversation>
%s
</conversation>`

const customActionArtifactPrompt = `Here is the full artifact content the user has generated, and is requesting you rewrite according to their custom instructions:
<artifact>
%s
</artifact>`

const replyPrompt = `You are an AI assistant tasked with responding to the users question.

The user has generated artifacts in the past. Use the following artifacts as context when responding to the users question.

You also have the following reflections on style guidelines and general memories/facts about the user to use when generating your response.
<reflections>
%s
</reflections>

%s`

const currentArtifactPrompt = `An artifact exists and the user has the ability to view and edit it. Here is its current content:
<artifact>
%s
</artifact>`

const noArtifactPrompt = `The user has not generated an artifact yet. There is no artifact context to use when responding.`

const routeQueryPrompt = `You are an assistant tasked with routing the users query based on their most recent message.
You should look at this message in isolation and determine where to best route to user.

` + appContextPrompt + `

Your options are as follows:
<options>
%s
</options>

A few of the recent messages in the chat history are:
<recent-messages>
%s
</recent-messages>

%s`

const routeOptionsHasArtifact = `- 'rewriteArtifact': The user has requested some sort of change, or revision to the artifact, or to write a completely new artifact independent of the current artifact. Use their recent message and the currently selected artifact (if any) to determine what to do. You should ONLY select this if the user has clearly requested a change to the artifact, otherwise you should lean towards either generating a new artifact or responding to their query.
  It is very important you do not edit the artifact unless clearly requested by the user.
- 'replyToGeneralInput': The user submitted a general input which does not require making an update, edit or generating a new artifact. This should ONLY be used if you are ABSOLUTELY sure the user does NOT want to make an edit, update or generate a new artifact.`

const routeOptionsNoArtifact = `- 'generateArtifact': The user has inputted a request which requires generating an artifact.
- 'replyToGeneralInput': The user submitted a general input which does not require making an update, edit or generating a new artifact. This should ONLY be used if you are ABSOLUTELY sure the user does NOT want to make an edit, update or generate a new artifact.`

const includeURLPrompt = `You're an advanced AI assistant.
You have been tasked with analyzing the user's message and determining if the user wants the contents of the URL included in their message included in their prompt.
You should ONLY answer 'true' if it is explicitly clear the user included the URL in their message so that its contents would be included in the prompt, otherwise, answer 'false'

Here is the user's message:
<message>
%s
</message>

Now, given their message, determine whether or not they want the contents of that webpage to be included in the prompt.`

const followupArtifactPrompt = `You are an AI assistant tasked with generating a followup to the artifact the user just generated.
The context is you're having a conversation with the user, and you've just generated an artifact for them. Now you should follow up with a message that notifies them you're done. Make this message creative!

I've provided some examples of what your followup might be, but please feel free to get creative here!

<examples>

<example id="1">
Here's a comedic twist on your poem about Bernese Mountain dogs. Let me know if this captures the humor you were aiming for, or if you'd like me to adjust anything!
</example>

<example id="2">
Here's a poem celebrating the warmth and gentle nature of pandas. Let me know if you'd like any adjustments or a different focus!
</example>

<example id="3">
Does this capture what you had in mind, or is there a different direction you'd like to explore?
</example>

</examples>

Here is the artifact you generated:
<artifact>
%s
</artifact>

You also have the following reflections on general memories/facts about the user to use when generating your response.
<reflections>
%s
</reflections>

Here is the conversation between you and the user:
<conversation>
%s
</conversation>

This message should be very short. Never generate more than 2-3 short sentences. Your tone should be somewhat formal, but still friendly. Remember, you're an AI assistant.

Do NOT include any tags, or extra text before or after your response. Do NOT prefix your response. Your response to this message should ONLY contain the description/followup message.`

const classifierPrompt = `You're a helpful AI assistant tasked with classifying the user's latest message.
The user has enabled web search for their conversation, however not all messages should be searched.

Analyze their latest message in isolation and determine if it warrants a web search to include additional context.

<message>
%s
</message>`

const queryGeneratorPrompt = `You're a helpful AI assistant tasked with writing a query to search the web.
You're provided with a list of messages between a user and an AI assistant.
The most recent message from the user is the one you should update to be a more search engine friendly query.

Try to keep the new query as similar to the message as possible, while still being search engine friendly.

Here is the conversation between the user and the assistant, in order of oldest to newest:

<conversation>
%s
</conversation>

<additional_context>
%s
</additional_context>

Respond ONLY with the search query, and nothing else.`

const webSearchResultsPrompt = `The following are the results of a web search run for the user's latest message.
Use these results as additional context when responding to their message.

<web-search-results>
%s
</web-search-results>`

const threadTitlePrompt = `You are tasked with generating a concise, descriptive title for a conversation thread.
The title should capture the main topic or request of the conversation in 5 words or less.

Here is the first exchange of the conversation:
<conversation>
%s
</conversation>

%s

Respond ONLY with the title, and nothing else. Do not wrap it in quotes.`

const summarizerPrompt = `You are an AI assistant tasked with summarizing a long conversation between a user and an assistant.
The summary will replace the older messages in the conversation history, so it must preserve all details needed to continue the conversation naturally.

Include in your summary:
- The user's goals and requests, in order.
- Key facts, decisions, and preferences that came up.
- The current state of any content being worked on.

Here is the conversation to summarize:
<conversation>
%s
</conversation>

Respond ONLY with the summary, and nothing else.`

const reflectionSystemPrompt = `You are an AI assistant tasked with analyzing a conversation and generated artifact, then generating reflections about the user.
Reflections come in two kinds:
- Style rules: rules about how the user likes their content written (tone, structure, formatting, code style).
- Content: general memories and facts about the user that would be useful in future conversations.

You are provided the full set of existing reflections. Your response REPLACES them, so carry forward every existing reflection that is still accurate, merge duplicates, and add anything new you learned from this conversation.

Here are the existing reflections:
<existing-reflections>
%s
</existing-reflections>`

const reflectionUserPrompt = `Here is the conversation to analyze:
<conversation>
%s
</conversation>

%s

Generate the updated set of reflections.`

// artifactPromptSection renders the "current artifact" section used by
// routing and reply prompts.
func artifactPromptSection(a artifact.Artifact) string {
	content, ok := a.Current()
	if !ok {
		return noArtifactPrompt
	}
	return fmt.Sprintf(currentArtifactPrompt, artifact.Format(content, false))
}

// disableChainOfThought is appended to the artifact generation prompt
// for models that tend to emit reasoning before tool output.
func disableChainOfThought(modelName string) string {
	if strings.Contains(strings.ToLower(modelName), "claude") {
		return "\n\nIMPORTANT: Do NOT perform chain of thought beforehand. Instead, go STRAIGHT to generating the tool response. This is VERY important."
	}
	return ""
}
