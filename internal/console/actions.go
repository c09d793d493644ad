package console

// Action is a logical editor command, independent of how it was typed
type Action int

const (
	ActionHelp Action = iota
	ActionCopy
	ActionNew
	ActionUpdate
	ActionPrev
	ActionNext
	ActionDelete
	ActionPlay
	ActionFaster
	ActionSlower
	ActionWrite
	ActionRead
	ActionSave
	ActionLoad
	ActionSelect
	ActionView
	ActionTranslate
	ActionRotate
	ActionPrint
	ActionStatus
	ActionBake
	ActionQuit
	ActionCount // Sentinel value for array sizing
)

// commandToAction maps typed commands, including the viewer's single-key
// shortcuts, to actions.
var commandToAction = map[string]Action{
	"h": ActionHelp, "help": ActionHelp,
	"c": ActionCopy, "copy": ActionCopy,
	"n": ActionNew, "new": ActionNew,
	"u": ActionUpdate, "update": ActionUpdate,
	"<": ActionPrev, "left": ActionPrev, "prev": ActionPrev,
	">": ActionNext, "right": ActionNext, "next": ActionNext,
	"d": ActionDelete, "delete": ActionDelete,
	"y": ActionPlay, "play": ActionPlay,
	"+": ActionFaster, "up": ActionFaster, "faster": ActionFaster,
	"-": ActionSlower, "down": ActionSlower, "slower": ActionSlower,
	"w": ActionWrite, "write": ActionWrite,
	"r": ActionRead, "read": ActionRead,
	"s": ActionSave, "save": ActionSave,
	"l": ActionLoad, "load": ActionLoad,
	"o": ActionSelect, "select": ActionSelect,
	"v": ActionView, "view": ActionView,
	"t": ActionTranslate, "translate": ActionTranslate,
	"rot": ActionRotate, "rotate": ActionRotate,
	"p": ActionPrint, "print": ActionPrint,
	"?": ActionStatus, "status": ActionStatus,
	"bake": ActionBake,
	"q": ActionQuit, "quit": ActionQuit, "exit": ActionQuit,
}

// Lookup returns the action bound to a command word
func Lookup(word string) (Action, bool) {
	a, ok := commandToAction[word]
	return a, ok
}

const helpText = ` ============== H E L P ==============

h, help               help menu
c, copy               copy current keyframe to the scene
n, new                new keyframe from the scene, after the current one
u, update             overwrite current keyframe with the scene
<, prev               previous keyframe
>, next               next keyframe
d, delete             delete current keyframe
y, play               play the animation
+, faster             shorten time between keyframes
-, slower             lengthen time between keyframes
w, write <file>       export keyframes as text
r, read <file>        import keyframes from text
s, save [file]        save script as YAML
l, load <file>        load a YAML or text script
o, select <object>    choose the object to manipulate
v, view <object>      choose the eye frame for manipulation
t, translate x y z    move the selected object
rot, rotate axis deg  rotate the selected object (axis: x, y, z or three numbers)
p, print              print the current keyframe
?, status             show script state
bake [file]           sample the animation at the playback FPS
q, quit               exit
`
