package nelgen

import "strings"

// reservedWords lists identifiers the generator never hands out verbatim.
// This is not a security feature; it keeps graphs from clobbering a built-in
// object or function by accident.
var reservedWords = strings.Join([]string{
	// Special character
	"_",
	// Host environment globals
	"__inext,assert,bit,colors,colours,coroutine,disk,dofile,error,fs," +
		"fetfenv,getmetatable,gps,help,io,ipairs,keys,loadfile,loadstring,math," +
		"native,next,os,paintutils,pairs,parallel,pcall,peripheral,print," +
		"printError,rawequal,rawget,rawset,read,rednet,redstone,rs,select," +
		"setfenv,setmetatable,sleep,string,term,textutils,tonumber," +
		"tostring,turtle,type,unpack,vector,hashmap,write,xpcall,_VERSION,__indext,HTTP",
	// Keywords
	"and,break,do,else,elseif,end,false,for,function,if,in,local,nil,not,or," +
		"repeat,return,then,true,until,while,goto",
	// Metamethods
	"add,sub,mul,div,mod,pow,unm,concat,len,eq,lt,le,index,newindex,call",
	// Basic functions
	"assert,collectgarbage,dofile,error,_G,getmetatable,inpairs,load," +
		"loadfile,next,pairs,pcall,print,rawequal,rawget,rawlen,rawset,select," +
		"setmetatable,tonumber,tostring,type,_VERSION,xpcall",
	// Modules
	"require,package,string,vector,hashmap,math,bit32,io,file,os,debug",
}, ",")

// ReservedWords returns the default reserved word set.
func ReservedWords() []string {
	seen := make(map[string]bool)
	var words []string
	for _, w := range strings.Split(reservedWords, ",") {
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		words = append(words, w)
	}
	return words
}
