package tree

import "fmt"

// componentNames are the well-known component ids an endpoint may report.
var componentNames = map[uint8]string{
	1:   "MAV_COMP_ID_AUTOPILOT1",
	25:  "MAV_COMP_ID_USER1",
	100: "MAV_COMP_ID_CAMERA",
	101: "MAV_COMP_ID_CAMERA2",
	140: "MAV_COMP_ID_SERVO1",
	154: "MAV_COMP_ID_GIMBAL",
	155: "MAV_COMP_ID_LOG",
	156: "MAV_COMP_ID_ADSB",
	157: "MAV_COMP_ID_OSD",
	158: "MAV_COMP_ID_PERIPHERAL",
	159: "MAV_COMP_ID_QX1_GIMBAL",
	160: "MAV_COMP_ID_FLARM",
	161: "MAV_COMP_ID_PARACHUTE",
	171: "MAV_COMP_ID_GIMBAL2",
	180: "MAV_COMP_ID_WINCH",
	190: "MAV_COMP_ID_MISSIONPLANNER",
	191: "MAV_COMP_ID_ONBOARD_COMPUTER",
	195: "MAV_COMP_ID_PATHPLANNER",
	197: "MAV_COMP_ID_OBSTACLE_AVOIDANCE",
	200: "MAV_COMP_ID_IMU",
	220: "MAV_COMP_ID_GPS",
	221: "MAV_COMP_ID_GPS2",
	236: "MAV_COMP_ID_ODID_TXRX_1",
	240: "MAV_COMP_ID_UDP_BRIDGE",
	241: "MAV_COMP_ID_UART_BRIDGE",
	242: "MAV_COMP_ID_TUNNEL_NODE",
	250: "MAV_COMP_ID_SYSTEM_CONTROL",
}

// ComponentName returns the well-known name of a component id, or "".
func ComponentName(id uint8) string {
	return componentNames[id]
}

// ComponentLabel renders "{id} {name}". The name part is empty for unknown
// ids, leaving a trailing space.
func ComponentLabel(id uint8) string {
	return fmt.Sprintf("%d %s", id, ComponentName(id))
}
