package pyast

// Kind implementations.

func (*Module) Kind() Kind { return KindModule }
func (*ExprStmt) Kind() Kind { return KindExprStmt }
func (*Assign) Kind() Kind { return KindAssign }
func (*AugAssign) Kind() Kind { return KindAugAssign }
func (*AnnAssign) Kind() Kind { return KindAnnAssign }
func (*Pass) Kind() Kind { return KindPass }
func (*Break) Kind() Kind { return KindBreak }
func (*Continue) Kind() Kind { return KindContinue }
func (*Return) Kind() Kind { return KindReturn }
func (*Raise) Kind() Kind { return KindRaise }
func (*Assert) Kind() Kind { return KindAssert }
func (*Del) Kind() Kind { return KindDel }
func (*Global) Kind() Kind { return KindGlobal }
func (*Import) Kind() Kind { return KindImport }
func (*ImportFrom) Kind() Kind { return KindImportFrom }
func (*If) Kind() Kind { return KindIf }
func (*While) Kind() Kind { return KindWhile }
func (*For) Kind() Kind { return KindFor }
func (*FunctionDef) Kind() Kind { return KindFunctionDef }
func (*ClassDef) Kind() Kind { return KindClassDef }
func (*Try) Kind() Kind { return KindTry }
func (*With) Kind() Kind { return KindWith }
func (*Alias) Kind() Kind { return KindAlias }
func (*Param) Kind() Kind { return KindParam }
func (*ExceptHandler) Kind() Kind { return KindExceptHandler }
func (*WithItem) Kind() Kind { return KindWithItem }
func (*DictItem) Kind() Kind { return KindDictItem }
func (*Comprehension) Kind() Kind { return KindComprehension }
func (*Name) Kind() Kind { return KindName }
func (*Constant) Kind() Kind { return KindConstant }
func (*Attribute) Kind() Kind { return KindAttribute }
func (*Call) Kind() Kind { return KindCall }
func (*Keyword) Kind() Kind { return KindKeyword }
func (*Starred) Kind() Kind { return KindStarred }
func (*Subscript) Kind() Kind { return KindSubscript }
func (*Slice) Kind() Kind { return KindSlice }
func (*BinOp) Kind() Kind { return KindBinOp }
func (*UnaryOp) Kind() Kind { return KindUnaryOp }
func (*Compare) Kind() Kind { return KindCompare }
func (*IfExp) Kind() Kind { return KindIfExp }
func (*Lambda) Kind() Kind { return KindLambda }
func (*List) Kind() Kind { return KindList }
func (*Tuple) Kind() Kind { return KindTuple }
func (*Set) Kind() Kind { return KindSet }
func (*Dict) Kind() Kind { return KindDict }
func (*Comp) Kind() Kind { return KindComp }
func (*Yield) Kind() Kind { return KindYield }

// Marker methods closing the Stmt and Expr sets.

func (*Module) stmtNode() {}
func (*ExprStmt) stmtNode() {}
func (*Assign) stmtNode() {}
func (*AugAssign) stmtNode() {}
func (*AnnAssign) stmtNode() {}
func (*Pass) stmtNode() {}
func (*Break) stmtNode() {}
func (*Continue) stmtNode() {}
func (*Return) stmtNode() {}
func (*Raise) stmtNode() {}
func (*Assert) stmtNode() {}
func (*Del) stmtNode() {}
func (*Global) stmtNode() {}
func (*Import) stmtNode() {}
func (*ImportFrom) stmtNode() {}
func (*If) stmtNode() {}
func (*While) stmtNode() {}
func (*For) stmtNode() {}
func (*FunctionDef) stmtNode() {}
func (*ClassDef) stmtNode() {}
func (*Try) stmtNode() {}
func (*With) stmtNode() {}

func (*Name) exprNode() {}
func (*Constant) exprNode() {}
func (*Attribute) exprNode() {}
func (*Call) exprNode() {}
func (*Keyword) exprNode() {}
func (*Starred) exprNode() {}
func (*Subscript) exprNode() {}
func (*Slice) exprNode() {}
func (*BinOp) exprNode() {}
func (*UnaryOp) exprNode() {}
func (*Compare) exprNode() {}
func (*IfExp) exprNode() {}
func (*Lambda) exprNode() {}
func (*List) exprNode() {}
func (*Tuple) exprNode() {}
func (*Set) exprNode() {}
func (*Dict) exprNode() {}
func (*Comp) exprNode() {}
func (*Yield) exprNode() {}
